// internal/app/features/donations/routes.go
package donations

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /api/donations.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	return r
}
