package login_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/features/login"
	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	"github.com/dalemusser/reliefhub/internal/app/store/memstore"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "login-test-secret-0123456789abcdef"
	email      = "chief@example.com"
	password   = "correct-horse"
)

type fakeRecorder struct {
	calls []string
	ids   []primitive.ObjectID
	err   error
}

func (f *fakeRecorder) RecordLogin(_ context.Context, _ *http.Request, adminID primitive.ObjectID, email string) error {
	f.calls = append(f.calls, email)
	f.ids = append(f.ids, adminID)
	return f.err
}

func (f *fakeRecorder) Recent(_ context.Context, adminID primitive.ObjectID, limit int64) ([]models.LoginRecord, error) {
	var out []models.LoginRecord
	for i := len(f.ids) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if f.ids[i] == adminID {
			out = append(out, models.LoginRecord{AdminID: adminID, Email: f.calls[i]})
		}
	}
	return out, nil
}

// passThrough stands in for auth.RequireSignedIn; tests inject the user directly.
func passThrough(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T, limiter *ratelimit.LoginLimiter, rec *fakeRecorder) (chi.Router, *memstore.DB) {
	t.Helper()
	db := memstore.New()
	mgr, err := auth.NewManager(testSecret, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	audit := auditlog.New(db.Activity, zap.NewNop(), auditlog.Config{})
	users := adminusers.New(db.AdminUsers, mgr, audit, db.Activity, zap.NewNop(), adminusers.WithHashCost(bcrypt.MinCost))
	if _, err := users.EnsureSuperAdmin(context.Background(), email, password); err != nil {
		t.Fatalf("EnsureSuperAdmin: %v", err)
	}

	var history login.LoginHistory
	if rec != nil {
		history = rec
	}
	h := login.NewHandler(users, limiter, history, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/api/admin/auth", func(r chi.Router) { h.MountRoutes(r, passThrough) })
	return r, db
}

func serve(r http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postLogin(t *testing.T, r http.Handler, email, password string) *testutil.ResponseRecorder {
	t.Helper()
	body := map[string]string{"email": email, "password": password}
	return serve(r, testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/auth/login", body))
}

func TestLogin_Success(t *testing.T) {
	rec := &fakeRecorder{}
	r, _ := newTestRouter(t, ratelimit.NewLoginLimiter(20, 5), rec)

	resp := postLogin(t, r, "Chief@Example.com", password)
	resp.AssertStatus(t, http.StatusOK)

	var res adminusers.LoginResult
	testutil.DecodeEnvelope(t, resp.ResponseRecorder, &res)
	if res.Token == "" {
		t.Error("expected a token")
	}
	if res.User.Email != email {
		t.Errorf("user email: got %q, want %q", res.User.Email, email)
	}
	if len(rec.calls) != 1 || rec.calls[0] != email {
		t.Errorf("recorded logins: got %v", rec.calls)
	}
}

func TestLogin_RecorderFailureIsIgnored(t *testing.T) {
	r, _ := newTestRouter(t, nil, &fakeRecorder{err: errors.New("disk full")})
	postLogin(t, r, email, password).AssertStatus(t, http.StatusOK)
}

func TestLogin_Rejections(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"wrong password", email, "nope", http.StatusUnauthorized},
		{"unknown email", "ghost@example.com", password, http.StatusUnauthorized},
		{"missing password", email, "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postLogin(t, r, tt.email, tt.password)
			resp.AssertStatus(t, tt.want)
			if env := testutil.DecodeEnvelope(t, resp.ResponseRecorder, nil); env.Success {
				t.Error("expected success=false")
			}
		})
	}

	resp := serve(r, testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/auth/login", "{"))
	resp.AssertStatus(t, http.StatusBadRequest)
}

func TestLogin_RateLimitedPerEmail(t *testing.T) {
	r, _ := newTestRouter(t, ratelimit.NewLoginLimiter(100, 2), nil)

	postLogin(t, r, email, "bad-1").AssertStatus(t, http.StatusUnauthorized)
	postLogin(t, r, email, "bad-2").AssertStatus(t, http.StatusUnauthorized)

	resp := postLogin(t, r, email, password)
	resp.AssertStatus(t, http.StatusTooManyRequests)
	resp.AssertContains(t, ratelimit.MsgTooManyForAccount)
}

func TestLogin_SuccessResetsEmailBudget(t *testing.T) {
	r, _ := newTestRouter(t, ratelimit.NewLoginLimiter(100, 2), nil)

	postLogin(t, r, email, "bad").AssertStatus(t, http.StatusUnauthorized)
	postLogin(t, r, email, password).AssertStatus(t, http.StatusOK)
	postLogin(t, r, email, "bad").AssertStatus(t, http.StatusUnauthorized)
	postLogin(t, r, email, password).AssertStatus(t, http.StatusOK)
}

func TestMe(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)
	u := testutil.SuperAdminUser()

	resp := serve(r, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/admin/auth/me"), u))
	resp.AssertStatus(t, http.StatusOK)

	var got adminusers.Summary
	testutil.DecodeEnvelope(t, resp.ResponseRecorder, &got)
	if got.ID != u.ID || got.Email != u.Email || got.Role != u.Role {
		t.Errorf("got %+v, want %+v", got, *u)
	}

	serve(r, testutil.NewRequest(http.MethodGet, "/api/admin/auth/me")).AssertStatus(t, http.StatusUnauthorized)
}

func TestLogout_RecordsActivity(t *testing.T) {
	r, db := newTestRouter(t, nil, nil)
	u := testutil.AdminUser()

	resp := serve(r, testutil.WithUser(testutil.NewRequest(http.MethodPost, "/api/admin/auth/logout"), u))
	resp.AssertStatus(t, http.StatusOK)
	resp.AssertContains(t, "Logged out")

	entries := db.Activity.Entries()
	if len(entries) != 1 || entries[0].Action != activity.ActionLogout {
		t.Fatalf("activity: got %+v", entries)
	}
	if entries[0].ActorEmail != u.Email {
		t.Errorf("actor email: got %q, want %q", entries[0].ActorEmail, u.Email)
	}
}

func TestHistory(t *testing.T) {
	rec := &fakeRecorder{}
	r, db := newTestRouter(t, nil, rec)

	postLogin(t, r, email, password).AssertStatus(t, http.StatusOK)
	postLogin(t, r, email, password).AssertStatus(t, http.StatusOK)

	admin, err := db.AdminUsers.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	u := &auth.User{ID: admin.ID, Email: admin.Email, Role: admin.Role}

	resp := serve(r, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/admin/auth/logins"), u))
	resp.AssertStatus(t, http.StatusOK)
	var got []models.LoginRecord
	testutil.DecodeEnvelope(t, resp.ResponseRecorder, &got)
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}

	resp = serve(r, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/admin/auth/logins"), testutil.AdminUser()))
	resp.AssertStatus(t, http.StatusOK)
	resp.AssertContains(t, `"data":[]`)
}
