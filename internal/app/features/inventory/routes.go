// internal/app/features/inventory/routes.go
package inventory

import "github.com/go-chi/chi/v5"

// Routes serves /api/admin/inventory.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}
