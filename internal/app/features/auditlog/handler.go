// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Svc *adminusers.Service
	Log *zap.Logger
}

// NewHandler constructs the activity log handler.
func NewHandler(svc *adminusers.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: svc,
		Log: logger,
	}
}

// ServeList handles GET /api/admin/activity-logs?limit=N, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	limit := paging.ActivityLogs.ParseLimit(r, "limit")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	logs, err := h.Svc.ActivityLogs(ctx, limit)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, logs)
}
