// internal/app/features/volunteers/handler.go
package volunteers

import (
	"context"
	"net/http"

	volsvc "github.com/dalemusser/reliefhub/internal/app/services/volunteers"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler owns the public signup and the admin volunteer endpoints.
type Handler struct {
	Svc *volsvc.Service
	Log *zap.Logger
}

// NewHandler constructs a volunteers Handler.
func NewHandler(svc *volsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// Signup handles POST /api/volunteers. New volunteers start pending.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in volsvc.SignupInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Svc.Signup(ctx, in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.Created(w, v)
}

// PublicList handles GET /api/volunteers (approved and active only).
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

// AdminList handles GET /api/admin/volunteers?approvalStatus=&availabilityStatus=.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.AdminList(ctx, query.Get(r, "approvalStatus"), query.Get(r, "availabilityStatus"))
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, list)
}

// Create handles POST /api/admin/volunteers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in volsvc.CreateInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Svc.Create(ctx, auth.ActorFrom(r), in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.Created(w, v)
}

// SetApproval handles PATCH /api/admin/volunteers/{id}/approval.
func (h *Handler) SetApproval(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ApprovalStatus string `json:"approvalStatus"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Svc.SetApproval(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"), body.ApprovalStatus)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, v)
}

// SetAvailability handles PATCH /api/admin/volunteers/{id}/availability.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AvailabilityStatus string `json:"availabilityStatus"`
		AssignedTask       string `json:"assignedTask"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Svc.SetAvailability(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"), body.AvailabilityStatus, body.AssignedTask)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, v)
}

// Remove handles DELETE /api/admin/volunteers/{id}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "volunteer removal")
	defer cancel()

	id, err := h.Svc.Remove(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, map[string]string{"id": id.Hex()})
}
