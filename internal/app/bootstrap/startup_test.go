package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "reliefhub_test",
		JWTSecret:     "bootstrap-test-secret-0123456789abcdef",
		JWTExpiry:     8 * time.Hour,
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid dev", dev, func(*AppConfig) {}, false},
		{"valid prod", prod, func(*AppConfig) {}, false},
		{"bad mongo uri", dev, func(c *AppConfig) { c.MongoURI = "postgres://localhost:5432" }, true},
		{"zero expiry", dev, func(c *AppConfig) { c.JWTExpiry = 0 }, true},
		{"empty secret", dev, func(c *AppConfig) { c.JWTSecret = "" }, true},
		{"dev secret in dev", dev, func(c *AppConfig) { c.JWTSecret = devJWTSecret }, false},
		{"dev secret in prod", prod, func(c *AppConfig) { c.JWTSecret = devJWTSecret }, true},
		{"short secret in prod", prod, func(c *AppConfig) { c.JWTSecret = "short" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuditConfig(t *testing.T) {
	cfg := AppConfig{AuditLogAuth: "off", AuditLogAdmin: "db"}
	got := cfg.auditConfig()
	if got.Auth != "off" || got.Admin != "db" {
		t.Errorf("got %+v", got)
	}
}

type fakeBootstrapper struct {
	email, password string
	res             adminusers.BootstrapResult
	err             error
}

func (f *fakeBootstrapper) EnsureSuperAdmin(_ context.Context, email, password string) (adminusers.BootstrapResult, error) {
	f.email, f.password = email, password
	return f.res, f.err
}

func TestEnsureSuperAdmin_PassesCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.SuperAdminEmail = "root@example.com"
	cfg.SuperAdminPassword = "root-password"

	f := &fakeBootstrapper{res: adminusers.BootstrapCreated}
	if err := ensureSuperAdmin(context.Background(), f, cfg, testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}
	if f.email != "root@example.com" || f.password != "root-password" {
		t.Errorf("got email=%q password=%q", f.email, f.password)
	}
}

func TestEnsureSuperAdmin_PropagatesError(t *testing.T) {
	f := &fakeBootstrapper{err: errors.New("boom")}
	if err := ensureSuperAdmin(context.Background(), f, validConfig(), testLogger()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestBackground_StopCancelsContext(t *testing.T) {
	ctx := backgroundContext()
	stopBackground()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("background context not cancelled")
	}
	if backgroundContext() == ctx {
		t.Error("expected a fresh context after stop")
	}
	stopBackground()
}

func TestNewRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, err := newServices(validConfig(), db, testLogger())
	if err != nil {
		t.Fatalf("newServices failed: %v", err)
	}
	r := newRouter(DBDeps{ReliefHubMongoDatabase: db}, svc, ratelimit.NewLoginLimiter(0, 0), false, testLogger())

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/health", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/alerts", http.StatusOK},
		{http.MethodGet, "/api/site-info", http.StatusOK},
		{http.MethodGet, "/api/help-requests", http.StatusOK},
		{http.MethodGet, "/api/admin/overview", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/users", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"success"`) {
				t.Errorf("expected a JSON envelope, got %s", rec.Body.String())
			}
		})
	}
}

type stubFetcher map[primitive.ObjectID]*auth.User

func (f stubFetcher) FetchUser(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return f[id], nil
}

// offlineServices wires services over a client that is never dialed, for
// router paths that answer before any store is queried.
func offlineServices(t *testing.T) *appServices {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("mongo.Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	svc, err := newServices(validConfig(), client.Database("reliefhub_router_test"), testLogger())
	if err != nil {
		t.Fatalf("newServices failed: %v", err)
	}
	return svc
}

func TestNewRouter_RoleGuards(t *testing.T) {
	svc := offlineServices(t)

	admin := models.AdminUser{ID: primitive.NewObjectID(), Email: "ops@example.com", Role: models.RoleAdmin, IsActive: true}
	gone := models.AdminUser{ID: primitive.NewObjectID(), Email: "gone@example.com", Role: models.RoleSuperAdmin}
	svc.Tokens.SetUserFetcher(stubFetcher{
		admin.ID: {ID: admin.ID, Email: admin.Email, Role: admin.Role},
	})
	r := newRouter(DBDeps{}, svc, ratelimit.NewLoginLimiter(0, 0), false, testLogger())

	issue := func(u models.AdminUser) string {
		t.Helper()
		tok, _, err := svc.Tokens.Issue(u)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		return tok
	}
	adminToken, goneToken := issue(admin), issue(gone)

	tests := []struct {
		name, method, path, token string
		want                      int
	}{
		{"admin lists users", http.MethodGet, "/api/admin/users", adminToken, http.StatusForbidden},
		{"admin creates user", http.MethodPost, "/api/admin/users", adminToken, http.StatusForbidden},
		{"admin reads activity", http.MethodGet, "/api/admin/activity-logs", adminToken, http.StatusForbidden},
		{"admin reads self", http.MethodGet, "/api/admin/auth/me", adminToken, http.StatusOK},
		{"removed account", http.MethodGet, "/api/admin/users", goneToken, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/admin/activity-logs", "not-a-jwt", http.StatusUnauthorized},
		{"no database", http.MethodGet, "/api/health", "", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"success"`) {
				t.Errorf("expected a JSON envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestNewRouter_LoginThrottleClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		second     int
	}{
		{"forwarding headers ignored", false, http.StatusTooManyRequests},
		{"trusted proxy", true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(DBDeps{}, offlineServices(t), ratelimit.NewLoginLimiter(1, 100), tt.trustProxy, testLogger())

			// Blank credentials fail validation after the limiter has counted the attempt.
			want := []int{http.StatusBadRequest, tt.second}
			for i, ip := range []string{"203.0.113.1", "203.0.113.2"} {
				req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{}`))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("X-Forwarded-For", ip)
				rec := httptest.NewRecorder()
				r.ServeHTTP(rec, req)
				if rec.Code != want[i] {
					t.Errorf("attempt %d: got %d, want %d (body: %s)", i+1, rec.Code, want[i], rec.Body.String())
				}
			}
		})
	}
}
