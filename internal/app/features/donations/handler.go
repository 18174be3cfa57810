// internal/app/features/donations/handler.go
package donations

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/services/publicinfo"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler records donation pledges. No payment is taken.
type Handler struct {
	Svc *publicinfo.Service
	Log *zap.Logger
}

func NewHandler(svc *publicinfo.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// Create handles POST /api/donations and returns the pledge with its
// reference code.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in publicinfo.DonationInput
	if err := envelope.Decode(w, r, &in); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Svc.Donate(ctx, in)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.Created(w, d)
}

// List handles GET /api/donations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.Donations(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, list)
}
