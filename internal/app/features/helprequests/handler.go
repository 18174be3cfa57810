// internal/app/features/helprequests/handler.go
package helprequests

import (
	"context"
	"encoding/json"
	"net/http"

	hrsvc "github.com/dalemusser/reliefhub/internal/app/services/helprequests"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler owns the public and admin help request endpoints.
type Handler struct {
	Svc *hrsvc.Service
	Log *zap.Logger
}

// NewHandler constructs a help request Handler.
func NewHandler(svc *hrsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// Submit handles POST /api/help-requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in hrsvc.SubmitInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Svc.Submit(ctx, in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.Created(w, view)
}

// PublicList handles GET /api/help-requests.
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.PublicList(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, list)
}

// AdminList handles GET /api/admin/help-requests?status=&urgency=.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.AdminList(ctx, query.Get(r, "status"), query.Get(r, "urgency"))
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, list)
}

// Show handles GET /api/admin/help-requests/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, err := h.Svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, view)
}

// UpdateStatus handles PATCH /api/admin/help-requests/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	view, err := h.Svc.UpdateStatus(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, view)
}

// AssignVolunteer handles PATCH /api/admin/help-requests/{id}/assign-volunteer.
// A null, missing or empty volunteerId unassigns.
func (h *Handler) AssignVolunteer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VolunteerID json.RawMessage `json:"volunteerId"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	volunteerID, err := optionalID(body.VolunteerID)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	view, err := h.Svc.AssignVolunteer(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"), volunteerID)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, view)
}

// optionalID accepts null or a string.
func optionalID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperr.Validation("volunteerId must be a string or null")
	}
	return s, nil
}
