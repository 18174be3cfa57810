// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/services/analytics"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Svc *analytics.Service
	Log *zap.Logger
}

func NewHandler(svc *analytics.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: svc,
		Log: logger,
	}
}

// ServeOverview handles GET /api/admin/overview, the admin landing summary.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	out, err := h.Svc.Overview(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, out)
}

// ServeAnalytics handles GET /api/admin/analytics.
func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	out, err := h.Svc.Analytics(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, out)
}
