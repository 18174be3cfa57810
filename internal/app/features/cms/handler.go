// internal/app/features/cms/handler.go
package cms

import (
	"context"
	"net/http"

	cmssvc "github.com/dalemusser/reliefhub/internal/app/services/cms"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Svc *cmssvc.Service
	Log *zap.Logger
}

func NewHandler(svc *cmssvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// Content handles GET /api/admin/cms and returns the whole document,
// drafts included.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Svc.Content(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, doc)
}

func (h *Handler) SetEmergencyMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EmergencyMessage string `json:"emergencyMessage"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Svc.SetEmergencyMessage(ctx, auth.ActorFrom(r), body.EmergencyMessage)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, doc)
}

func (h *Handler) SetHotlines(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HotlineNumbers []string `json:"hotlineNumbers"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Svc.SetHotlines(ctx, auth.ActorFrom(r), body.HotlineNumbers)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, doc)
}

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var in cmssvc.AnnouncementInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Svc.CreateAnnouncement(ctx, auth.ActorFrom(r), in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.Created(w, a)
}

// SetPublished handles PATCH /api/admin/cms/announcements/{id}/publish.
// Only a JSON true publishes; anything else, including a missing field or
// the string "true", unpublishes.
func (h *Handler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Published any `json:"published"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	published, _ := body.Published.(bool)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Svc.SetAnnouncementPublished(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"), published)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, a)
}
