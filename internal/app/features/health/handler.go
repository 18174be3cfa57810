package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB  Pinger
	Log *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type healthResponse struct {
	Success  bool   `json:"success"`
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Serve handles GET /api/health.
//
// On success: 200 and
//
//	{ "success":true, "status":"OK", "database":"connected" }
//
// When the database does not answer a ping: 503 and
//
//	{ "success":false, "status":"DEGRADED", "database":"disconnected" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if h.DB == nil {
		envelope.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "DEGRADED", Database: "disconnected"})
		return
	}
	if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		envelope.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "DEGRADED", Database: "disconnected"})
		return
	}
	envelope.JSON(w, http.StatusOK, healthResponse{Success: true, Status: "OK", Database: "connected"})
}
