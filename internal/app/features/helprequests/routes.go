// internal/app/features/helprequests/routes.go
package helprequests

import "github.com/go-chi/chi/v5"

// MountPublic mounts the public endpoints (under /api/help-requests).
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/", h.PublicList)
	r.Post("/", h.Submit)
}

// MountAdmin mounts the triage endpoints (under /api/admin/help-requests).
// Callers must have applied the sign-in guard.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/", h.AdminList)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/assign-volunteer", h.AssignVolunteer)
}
