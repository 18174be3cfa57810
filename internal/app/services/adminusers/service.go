// Package adminusers handles admin sign-in, operator account management,
// and the super-admin bootstrap.
package adminusers

import (
	"context"
	"errors"
	"fmt"
	"time"

	adminuserstore "github.com/dalemusser/reliefhub/internal/app/store/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgInvalidNewUser      = "Valid email and password (min 8 chars) are required"
	MsgAlreadyExists       = "Admin user already exists"
	MsgInvalidRole         = "Invalid role value"
	MsgNotFound            = "Admin user not found"
	MsgLastSuperAdmin      = "At least one super admin is required"
	MsgSelfRemoval         = "You cannot remove your own account"
)

// DefaultHashCost is the bcrypt cost for stored passwords.
const DefaultHashCost = 12

const (
	minPasswordLen   = 8
	defaultLogLimit  = 20
	maxLogLimit      = 100
	maxPasswordBytes = 72
)

// Store is the admin account persistence the service needs.
type Store interface {
	Create(ctx context.Context, u models.AdminUser) (models.AdminUser, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (models.AdminUser, error)
	ListActive(ctx context.Context) ([]models.AdminUser, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.AdminUserUpdate) (models.AdminUser, error)
	CountActiveSuperAdmins(ctx context.Context) (int64, error)
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(u models.AdminUser) (string, time.Time, error)
}

// Auditor records admin actions.
type Auditor interface {
	Record(ctx context.Context, actor models.Actor, action, details string) error
}

// ActivityReader reads the newest activity entries.
type ActivityReader interface {
	Recent(ctx context.Context, limit int64) ([]models.ActivityLog, error)
}

type Service struct {
	users    Store
	tokens   TokenIssuer
	audit    Auditor
	activity ActivityReader
	log      *zap.Logger
	hashCost int
}

// Option customises a Service.
type Option func(*Service)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func New(users Store, tokens TokenIssuer, audit Auditor, activity ActivityReader, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{users: users, tokens: tokens, audit: audit, activity: activity, log: log, hashCost: DefaultHashCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary is the public shape of an admin account.
type Summary struct {
	ID    primitive.ObjectID `json:"id"`
	Email string             `json:"email"`
	Role  string             `json:"role"`
}

// Listed adds timestamps for the user management table.
type Listed struct {
	Summary
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func summarize(u models.AdminUser) Summary {
	return Summary{ID: u.ID, Email: u.Email, Role: u.Role}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Sign-in                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Summary   `json:"user"`
}

// Login checks credentials against an active account and issues a token.
// Unknown emails, inactive accounts and wrong passwords look the same.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return LoginResult{}, apperr.Validation(MsgCredentialsRequired)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return LoginResult{}, apperr.Unauthenticated(MsgInvalidCredentials)
	}
	if err != nil {
		return LoginResult{}, apperr.Internal("Failed to load admin user", err)
	}
	if !u.IsActive {
		return LoginResult{}, apperr.Unauthenticated(MsgInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, apperr.Unauthenticated(MsgInvalidCredentials)
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return LoginResult{}, apperr.Internal("Failed to issue token", err)
	}
	if err := s.record(ctx, models.ActorFor(u), activity.ActionLogin, fmt.Sprintf("User %s signed in", u.Email)); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: exp, User: summarize(u)}, nil
}

// Logout records the sign-out. Tokens are stateless, so there is nothing to
// revoke, and a failed audit write never fails the request.
func (s *Service) Logout(ctx context.Context, actor models.Actor) {
	if err := s.audit.Record(ctx, actor, activity.ActionLogout, fmt.Sprintf("User %s signed out", actor.Email)); err != nil {
		s.log.Warn("logout audit failed", zap.Error(err), zap.String("email", actor.Email))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Account management (super-admin)                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// List returns active admin users, newest first.
func (s *Service) List(ctx context.Context) ([]Listed, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load admin users", err)
	}
	out := make([]Listed, 0, len(users))
	for _, u := range users {
		out = append(out, Listed{Summary: summarize(u), CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt})
	}
	return out, nil
}

type CreateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Create adds an admin account. Role is super-admin only when asked for
// exactly; anything else is admin. A previously removed account with the
// same email is reactivated with the new password and role.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (Summary, error) {
	email := normalize.Email(in.Email)
	if !inputval.IsValidEmail(email) || len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordBytes {
		return Summary{}, apperr.Validation(MsgInvalidNewUser)
	}
	role := models.RoleAdmin
	if in.Role == models.RoleSuperAdmin {
		role = models.RoleSuperAdmin
	}

	existing, err := s.users.GetByEmail(ctx, email)
	found := err == nil
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return Summary{}, apperr.Internal("Failed to load admin user", err)
	}
	if found && existing.IsActive {
		return Summary{}, apperr.Conflict(MsgAlreadyExists)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return Summary{}, err
	}

	var u models.AdminUser
	if found {
		active := true
		u, err = s.users.Update(ctx, existing.ID, models.AdminUserUpdate{PasswordHash: &hash, Role: &role, IsActive: &active})
	} else {
		u, err = s.users.Create(ctx, models.AdminUser{Email: email, PasswordHash: hash, Role: role, IsActive: true})
	}
	if errors.Is(err, adminuserstore.ErrDuplicateEmail) {
		return Summary{}, apperr.Conflict(MsgAlreadyExists)
	}
	if err != nil {
		return Summary{}, apperr.Internal("Failed to save admin user", err)
	}

	if err := s.record(ctx, actor, activity.ActionAdminUserCreated, fmt.Sprintf("Admin user %s created as %s", u.Email, u.Role)); err != nil {
		return Summary{}, err
	}
	return summarize(u), nil
}

// UpdateRole changes an active account's role. Demoting the last active
// super-admin is rejected.
func (s *Service) UpdateRole(ctx context.Context, actor models.Actor, id, role string) (Summary, error) {
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return Summary{}, apperr.Validation(MsgInvalidRole)
	}
	u, err := s.loadActive(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	if u.Role == models.RoleSuperAdmin && role == models.RoleAdmin {
		if err := s.keepOneSuperAdmin(ctx); err != nil {
			return Summary{}, err
		}
	}

	u, err = s.users.Update(ctx, u.ID, models.AdminUserUpdate{Role: &role})
	if err != nil {
		return Summary{}, storeErr(err)
	}
	if err := s.record(ctx, actor, activity.ActionAdminUserRole, fmt.Sprintf("Admin user %s role changed to %s", u.Email, role)); err != nil {
		return Summary{}, err
	}
	return summarize(u), nil
}

// Remove deactivates an account. Admins cannot remove themselves and the
// last active super-admin cannot be removed.
func (s *Service) Remove(ctx context.Context, actor models.Actor, id string) (primitive.ObjectID, error) {
	u, err := s.loadActive(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if actor.ID != nil && *actor.ID == u.ID {
		return primitive.NilObjectID, apperr.Validation(MsgSelfRemoval)
	}
	if u.Role == models.RoleSuperAdmin {
		if err := s.keepOneSuperAdmin(ctx); err != nil {
			return primitive.NilObjectID, err
		}
	}

	inactive := false
	if _, err := s.users.Update(ctx, u.ID, models.AdminUserUpdate{IsActive: &inactive}); err != nil {
		return primitive.NilObjectID, storeErr(err)
	}
	if err := s.record(ctx, actor, activity.ActionAdminUserRemoved, fmt.Sprintf("Admin user %s removed", u.Email)); err != nil {
		return primitive.NilObjectID, err
	}
	return u.ID, nil
}

// ActivityLogs returns the newest entries. limit is clamped to 1..100;
// zero means the default of 20.
func (s *Service) ActivityLogs(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	switch {
	case limit == 0:
		limit = defaultLogLimit
	case limit < 1:
		limit = 1
	case limit > maxLogLimit:
		limit = maxLogLimit
	}
	logs, err := s.activity.Recent(ctx, int64(limit))
	if err != nil {
		return nil, apperr.Internal("Failed to load activity logs", err)
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return logs, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bootstrap                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// BootstrapResult reports what EnsureSuperAdmin did.
type BootstrapResult string

const (
	BootstrapSkipped   BootstrapResult = "skipped"
	BootstrapCreated   BootstrapResult = "created"
	BootstrapUpdated   BootstrapResult = "updated"
	BootstrapUnchanged BootstrapResult = "unchanged"
)

// EnsureSuperAdmin makes sure email is an active super-admin whose password
// is password. A blank email or password skips the bootstrap.
func (s *Service) EnsureSuperAdmin(ctx context.Context, email, password string) (BootstrapResult, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return BootstrapSkipped, nil
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		hash, err := s.hash(password)
		if err != nil {
			return "", err
		}
		_, err = s.users.Create(ctx, models.AdminUser{
			Email: email, PasswordHash: hash, Role: models.RoleSuperAdmin, IsActive: true,
		})
		if err != nil {
			return "", fmt.Errorf("create super admin: %w", err)
		}
		return BootstrapCreated, nil
	}
	if err != nil {
		return "", fmt.Errorf("load super admin: %w", err)
	}

	var upd models.AdminUserUpdate
	if existing.Role != models.RoleSuperAdmin {
		role := models.RoleSuperAdmin
		upd.Role = &role
	}
	if !existing.IsActive {
		active := true
		upd.IsActive = &active
	}
	if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) != nil {
		hash, err := s.hash(password)
		if err != nil {
			return "", err
		}
		upd.PasswordHash = &hash
	}
	if upd == (models.AdminUserUpdate{}) {
		return BootstrapUnchanged, nil
	}
	if _, err := s.users.Update(ctx, existing.ID, upd); err != nil {
		return "", fmt.Errorf("update super admin: %w", err)
	}
	return BootstrapUpdated, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", apperr.Internal("Failed to hash password", err)
	}
	return string(b), nil
}

func (s *Service) loadActive(ctx context.Context, id string) (models.AdminUser, error) {
	oid, err := primitive.ObjectIDFromHex(normalize.Name(id))
	if err != nil {
		return models.AdminUser{}, apperr.NotFound(MsgNotFound)
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return models.AdminUser{}, storeErr(err)
	}
	if !u.IsActive {
		return models.AdminUser{}, apperr.NotFound(MsgNotFound)
	}
	return u, nil
}

func (s *Service) keepOneSuperAdmin(ctx context.Context) error {
	n, err := s.users.CountActiveSuperAdmins(ctx)
	if err != nil {
		return apperr.Internal("Failed to count super admins", err)
	}
	if n <= 1 {
		return apperr.Validation(MsgLastSuperAdmin)
	}
	return nil
}

func (s *Service) record(ctx context.Context, actor models.Actor, action, details string) error {
	if err := s.audit.Record(ctx, actor, action, details); err != nil {
		return apperr.Internal("Failed to record activity", err)
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(MsgNotFound)
	}
	return apperr.Internal("Database error", err)
}
