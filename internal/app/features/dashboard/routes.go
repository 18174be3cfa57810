// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// MountRoutes adds the overview and analytics endpoints to the admin
// router. Both sit directly under /api/admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/overview", h.ServeOverview)
	r.Get("/analytics", h.ServeAnalytics)
}
