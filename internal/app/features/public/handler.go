// internal/app/features/public/handler.go
package public

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/services/cms"
	"github.com/dalemusser/reliefhub/internal/app/services/publicinfo"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Handler serves the read-only public feeds.
type Handler struct {
	Info *publicinfo.Service
	Site *cms.Service
	Log  *zap.Logger
}

// NewHandler constructs a public feed Handler.
func NewHandler(info *publicinfo.Service, site *cms.Service, logger *zap.Logger) *Handler {
	return &Handler{Info: info, Site: site, Log: logger}
}

// respond runs load under a timeout and writes its result as a success
// envelope.
func respond[T any](h *Handler, w http.ResponseWriter, r *http.Request, load func(context.Context) (T, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := load(ctx)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}
	envelope.OK(w, v)
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Info.Dashboard)
}

func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Info.Alerts)
}

func (h *Handler) Updates(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Info.Updates)
}

func (h *Handler) Resources(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Info.Resources)
}

// Shelters handles GET /api/shelters. ?openOnly=true hides closed shelters.
func (h *Handler) Shelters(w http.ResponseWriter, r *http.Request) {
	openOnly := query.Get(r, "openOnly") == "true"
	respond(h, w, r, func(ctx context.Context) ([]models.Shelter, error) {
		return h.Info.Shelters(ctx, openOnly)
	})
}

// SiteInfo handles GET /api/site-info: the emergency banner, hotlines and
// the latest published announcements.
func (h *Handler) SiteInfo(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Site.PublicInfo)
}
