package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

type fakeFetcher struct {
	users map[primitive.ObjectID]*auth.User
}

func (f *fakeFetcher) FetchUser(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return f.users[id], nil
}

func newManager(t *testing.T, users ...models.AdminUser) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(testSecret, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	f := &fakeFetcher{users: map[primitive.ObjectID]*auth.User{}}
	for _, u := range users {
		if u.IsActive {
			f.users[u.ID] = &auth.User{ID: u.ID, Email: u.Email, Role: u.Role}
		}
	}
	m.SetUserFetcher(f)
	return m
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.CurrentUser(r)
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(u.Email))
	})
}

func TestNewManager_RejectsEmptySecret(t *testing.T) {
	if _, err := auth.NewManager("", time.Hour, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := auth.NewManager(testSecret, 0, zap.NewNop()); err == nil {
		t.Error("expected error for zero expiry")
	}
}

func TestIssueAndParse(t *testing.T) {
	m := newManager(t)
	u := models.AdminUser{ID: primitive.NewObjectID(), Email: "ops@example.com", Role: models.RoleAdmin}

	tok, exp, err := m.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry %v is not in the future", exp)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != u.ID.Hex() || claims.Email != u.Email || claims.Role != u.Role {
		t.Errorf("claims = %+v, want sub/email/role of %+v", claims, u)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestParse_RejectsOtherSecret(t *testing.T) {
	other, _ := auth.NewManager("another-secret-that-is-also-32-chars!!", time.Hour, zap.NewNop())
	tok, _, _ := other.Issue(models.AdminUser{ID: primitive.NewObjectID(), Role: models.RoleAdmin})

	if _, err := newManager(t).Parse(tok); err == nil {
		t.Error("expected signature error")
	}
}

func TestParse_RejectsExpired(t *testing.T) {
	claims := auth.Claims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   primitive.NewObjectID().Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newManager(t).Parse(tok); err == nil {
		t.Error("expected expiry error")
	}
}

func TestRequireSignedIn(t *testing.T) {
	active := models.AdminUser{ID: primitive.NewObjectID(), Email: "a@example.com", Role: models.RoleAdmin, IsActive: true}
	inactive := models.AdminUser{ID: primitive.NewObjectID(), Email: "b@example.com", Role: models.RoleAdmin}
	m := newManager(t, active, inactive)

	activeTok, _, _ := m.Issue(active)
	inactiveTok, _, _ := m.Issue(inactive)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"inactive account", "Bearer " + inactiveTok, http.StatusUnauthorized},
		{"active account", "Bearer " + activeTok, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.RequireSignedIn(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"success":false`) {
				t.Errorf("expected failure envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	guard := auth.RequireRole(models.RoleSuperAdmin)

	t.Run("no user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		req := auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil),
			&auth.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
		rec := httptest.NewRecorder()
		guard(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("allowed", func(t *testing.T) {
		req := auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil),
			&auth.User{ID: primitive.NewObjectID(), Email: "root@example.com", Role: models.RoleSuperAdmin})
		rec := httptest.NewRecorder()
		guard(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
