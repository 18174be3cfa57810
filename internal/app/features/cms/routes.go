// internal/app/features/cms/routes.go
package cms

import "github.com/go-chi/chi/v5"

// Routes serves /api/admin/cms.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Content)
	r.Put("/emergency-message", h.SetEmergencyMessage)
	r.Put("/hotlines", h.SetHotlines)
	r.Post("/announcements", h.CreateAnnouncement)
	r.Patch("/announcements/{id}/publish", h.SetPublished)
	return r
}
