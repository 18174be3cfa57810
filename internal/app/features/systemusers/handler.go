// internal/app/features/systemusers/handler.go
package systemusers

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler manages admin accounts. Every route is super-admin only; the
// guard is applied where the routes are mounted.
type Handler struct {
	Svc *adminusers.Service
	Log *zap.Logger
}

func NewHandler(svc *adminusers.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: svc,
		Log: logger,
	}
}

// ServeList handles GET /api/admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users, err := h.Svc.List(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, users)
}

// HandleCreate handles POST /api/admin/users. Hashing dominates, so it
// gets the medium budget.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in adminusers.CreateInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Svc.Create(ctx, auth.ActorFrom(r), in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.Created(w, u)
}

// HandleRole handles PATCH /api/admin/users/{id}/role.
func (h *Handler) HandleRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := envelope.Decode(w, r, &body); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Svc.UpdateRole(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"), body.Role)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, map[string]string{"id": u.ID.Hex(), "role": u.Role})
}

// HandleDelete handles DELETE /api/admin/users/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.Svc.Remove(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, map[string]string{"id": id.Hex()})
}
