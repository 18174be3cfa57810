// internal/app/features/inventory/handler.go
package inventory

import (
	"context"
	"net/http"

	invsvc "github.com/dalemusser/reliefhub/internal/app/services/inventory"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Svc *invsvc.Service
	Log *zap.Logger
}

func NewHandler(svc *invsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// List handles GET /api/admin/inventory. Each item carries isLowStock.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	items, err := h.Svc.List(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, items)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in invsvc.CreateInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, err := h.Svc.Create(ctx, auth.ActorFrom(r), in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.Created(w, item)
}

// Update handles PATCH /api/admin/inventory/{id}; absent fields are kept.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in invsvc.UpdateInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, err := h.Svc.Update(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"), in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.Svc.Delete(ctx, auth.ActorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, map[string]string{"id": id.Hex()})
}
