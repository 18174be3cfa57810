// internal/domain/models/adminuser.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// AdminUser is an operator account for the admin API.
// Email is stored lowercased and is unique.
type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"is_active" json:"isActive"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// AdminUserUpdate carries the fields to change on an admin user. Nil means unchanged.
type AdminUserUpdate struct {
	PasswordHash *string
	Role         *string
	IsActive     *bool
}

// Actor identifies who performed an action. A zero Actor is the system.
type Actor struct {
	ID    *primitive.ObjectID
	Email string
}

// ActorFor builds an Actor from an admin account.
func ActorFor(u AdminUser) Actor {
	id := u.ID
	return Actor{ID: &id, Email: u.Email}
}
