// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User is the authenticated admin injected into r.Context().
// It is reloaded from storage on every request, so role changes and
// deactivations take effect immediately.
type User struct {
	ID    primitive.ObjectID
	Email string
	Role  string
}

// Actor returns the audit identity for this user.
func (u *User) Actor() models.Actor {
	if u == nil {
		return models.Actor{}
	}
	id := u.ID
	return models.Actor{ID: &id, Email: u.Email}
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok && u != nil
}

// ActorFrom returns the audit identity of the signed-in user, or the zero
// (system) Actor when there is none.
func ActorFrom(r *http.Request) models.Actor {
	u, _ := CurrentUser(r)
	return u.Actor()
}

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects u into the request context. For handler tests only.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Tokens                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// Claims are the bearer token claims. Subject carries the admin id.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserFetcher loads the live account for a token subject.
// It returns (nil, nil) when the account is missing or inactive.
type UserFetcher interface {
	FetchUser(ctx context.Context, id primitive.ObjectID) (*User, error)
}

// Manager issues and verifies bearer tokens and guards admin routes.
type Manager struct {
	secret  []byte
	expiry  time.Duration
	fetcher UserFetcher
	log     *zap.Logger
}

// MinSecretLen is the recommended minimum signing secret length.
const MinSecretLen = 32

// NewManager builds a token manager. The secret should be at least
// MinSecretLen bytes.
func NewManager(secret string, expiry time.Duration, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("jwt expiry must be positive, got %s", expiry)
	}
	if len(secret) < MinSecretLen {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	return &Manager{secret: []byte(secret), expiry: expiry, log: logger}, nil
}

// SetUserFetcher installs the account loader used by RequireSignedIn.
func (m *Manager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// Expiry returns the configured token lifetime.
func (m *Manager) Expiry() time.Duration { return m.expiry }

// Issue signs a token for the given admin.
func (m *Manager) Issue(u models.AdminUser) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.expiry)
	claims := Claims{
		Role:  u.Role,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies a token's signature and expiry and returns its claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireSignedIn verifies the bearer token, reloads the account and puts it
// in the request context. Missing, invalid or expired tokens and inactive
// accounts get 401.
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			envelope.Fail(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.Parse(raw)
		if err != nil {
			envelope.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			envelope.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if m.fetcher == nil {
			m.log.Error("auth: no user fetcher configured")
			envelope.Fail(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		u, err := m.fetcher.FetchUser(ctx, id)
		cancel()
		if err != nil {
			m.log.Error("auth: user lookup failed", zap.Error(err), zap.String("user_id", id.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if u == nil {
			envelope.Fail(w, http.StatusUnauthorized, "Invalid authentication session")
			return
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireRole ensures there is a user with one of the allowed roles in context
// (set by RequireSignedIn). No user → 401; wrong role → 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				envelope.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				envelope.Fail(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
