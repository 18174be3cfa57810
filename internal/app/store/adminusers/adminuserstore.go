// internal/app/store/adminusers/adminuserstore.go
package adminuserstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEmail is returned when an admin user with the email already exists.
var ErrDuplicateEmail = errors.New("an admin user with this email already exists")

// Store provides access to the admin_users collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new admin user store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admin_users")}
}

// Create inserts an admin user. Email is normalized before insert.
func (s *Store) Create(ctx context.Context, u models.AdminUser) (models.AdminUser, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.AdminUser{}, ErrDuplicateEmail
		}
		return models.AdminUser{}, err
	}
	return u, nil
}

// GetByID loads an admin user regardless of state.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.AdminUser, error) {
	var u models.AdminUser
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, err
}

// GetByEmail loads an admin user by email regardless of state.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.AdminUser, error) {
	var u models.AdminUser
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	return u, err
}

// ListActive returns active admin users, newest first.
func (s *Store) ListActive(ctx context.Context) ([]models.AdminUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.AdminUser{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies upd and returns the updated user.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd models.AdminUserUpdate) (models.AdminUser, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.AdminUser
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	return u, err
}

// CountActiveSuperAdmins returns how many active super-admins exist.
func (s *Store) CountActiveSuperAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_active": true, "role": models.RoleSuperAdmin})
}

// FetchUser implements auth.UserFetcher. Missing or inactive users yield nil, nil.
func (s *Store) FetchUser(ctx context.Context, id primitive.ObjectID) (*auth.User, error) {
	var u models.AdminUser
	err := s.c.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &auth.User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}
