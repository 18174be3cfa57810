// internal/app/features/public/routes.go
package public

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the public feeds on r (the /api router).
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/alerts", h.Alerts)
	r.Get("/updates", h.Updates)
	r.Get("/resources", h.Resources)
	r.Get("/shelters", h.Shelters)
	r.Get("/site-info", h.SiteInfo)
}
