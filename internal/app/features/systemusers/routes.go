// internal/app/features/systemusers/routes.go
package systemusers

import "github.com/go-chi/chi/v5"

// Routes mounts the admin account routes under /api/admin/users.
//
// Example mount from bootstrap:
//
//	r.With(auth.RequireRole(models.RoleSuperAdmin)).Mount("/users", systemusers.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Patch("/{id}/role", h.HandleRole)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
