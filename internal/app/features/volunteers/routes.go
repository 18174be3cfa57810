// internal/app/features/volunteers/routes.go
package volunteers

import "github.com/go-chi/chi/v5"

// MountPublic mounts signup and the public roster (under /api/volunteers).
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/", h.PublicList)
	r.Post("/", h.Signup)
}

// MountAdmin mounts volunteer management (under /api/admin/volunteers).
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/", h.AdminList)
	r.Post("/", h.Create)
	r.Get("/export.csv", h.ServeCSV)
	r.Patch("/{id}/approval", h.SetApproval)
	r.Patch("/{id}/availability", h.SetAvailability)
	r.Delete("/{id}", h.Remove)
}
