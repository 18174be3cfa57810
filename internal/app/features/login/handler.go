// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HistoryLimit is how many sign-ins GET /logins returns.
const HistoryLimit = 10

// LoginHistory keeps sign-in history. Write failures are logged, not
// returned to the client.
type LoginHistory interface {
	RecordLogin(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) error
	Recent(ctx context.Context, adminID primitive.ObjectID, limit int64) ([]models.LoginRecord, error)
}

type Handler struct {
	Users   *adminusers.Service
	Limiter *ratelimit.LoginLimiter
	Logins  LoginHistory // optional
	Log     *zap.Logger
}

func NewHandler(users *adminusers.Service, limiter *ratelimit.LoginLimiter, logins LoginHistory, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Limiter: limiter, Logins: logins, Log: logger}
}

// Login handles POST /api/admin/auth/login.
//
// Attempts are throttled per client IP and per email before credentials
// are checked; a successful sign-in clears the email's budget.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := envelope.DecodeLimited(w, r, &body, limits.MaxLoginBody); err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, body.Email); !ok {
			h.Log.Warn("login rate limited",
				zap.String("ip", ratelimit.ClientIP(r)),
				zap.String("email", body.Email))
			envelope.Fail(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Users.Login(ctx, body.Email, body.Password)
	if err != nil {
		envelope.Error(w, r, h.Log, err)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(body.Email)
	}
	if h.Logins != nil {
		if err := h.Logins.RecordLogin(ctx, r, res.User.ID, res.User.Email); err != nil {
			h.Log.Warn("failed to record login", zap.Error(err), zap.String("user_id", res.User.ID.Hex()))
		}
	}
	envelope.OK(w, res)
}

// Me handles GET /api/admin/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	envelope.OK(w, adminusers.Summary{ID: u.ID, Email: u.Email, Role: u.Role})
}

// Logout handles POST /api/admin/auth/logout. Tokens are stateless; this
// only records the event, and never fails because of it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.Users.Logout(ctx, auth.ActorFrom(r))
	envelope.OK(w, map[string]string{"message": "Logged out"})
}

// History handles GET /api/admin/auth/logins: the caller's own recent
// sign-ins, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if h.Logins == nil {
		envelope.OK(w, []models.LoginRecord{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.Logins.Recent(ctx, u.ID, HistoryLimit)
	if err != nil {
		h.Log.Error("failed to load login history", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if recs == nil {
		recs = []models.LoginRecord{}
	}
	envelope.OK(w, recs)
}
