package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	adminuserstore "github.com/dalemusser/reliefhub/internal/app/store/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminUsers is an in-memory admin user store with a unique email constraint.
type AdminUsers struct {
	mu    sync.Mutex
	clock clock
	items []models.AdminUser
}

func (s *AdminUsers) find(match func(models.AdminUser) bool) int {
	return slices.IndexFunc(s.items, match)
}

func (s *AdminUsers) Create(_ context.Context, u models.AdminUser) (models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = normalize.Email(u.Email)
	if s.find(func(x models.AdminUser) bool { return x.Email == u.Email }) >= 0 {
		return models.AdminUser{}, adminuserstore.ErrDuplicateEmail
	}
	now := s.clock.now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	s.items = append(s.items, u)
	return u, nil
}

func (s *AdminUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(func(x models.AdminUser) bool { return x.ID == id }); i >= 0 {
		return s.items[i], nil
	}
	return models.AdminUser{}, mongo.ErrNoDocuments
}

func (s *AdminUsers) GetByEmail(_ context.Context, email string) (models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalize.Email(email)
	if i := s.find(func(x models.AdminUser) bool { return x.Email == email }); i >= 0 {
		return s.items[i], nil
	}
	return models.AdminUser{}, mongo.ErrNoDocuments
}

func (s *AdminUsers) ListActive(_ context.Context) ([]models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AdminUser{}
	for _, u := range s.items {
		if u.IsActive {
			out = append(out, u)
		}
	}
	newestFirst(out, func(u models.AdminUser) time.Time { return u.CreatedAt }, func(u models.AdminUser) primitive.ObjectID { return u.ID })
	return out, nil
}

func (s *AdminUsers) Update(_ context.Context, id primitive.ObjectID, upd models.AdminUserUpdate) (models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(func(x models.AdminUser) bool { return x.ID == id })
	if i < 0 {
		return models.AdminUser{}, mongo.ErrNoDocuments
	}
	u := &s.items[i]
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	u.UpdatedAt = s.clock.now()
	return *u, nil
}

func (s *AdminUsers) CountActiveSuperAdmins(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.items {
		if u.IsActive && u.Role == models.RoleSuperAdmin {
			n++
		}
	}
	return n, nil
}

// FetchUser implements auth.UserFetcher.
func (s *AdminUsers) FetchUser(ctx context.Context, id primitive.ObjectID) (*auth.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil || !u.IsActive {
		return nil, nil
	}
	return &auth.User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}
