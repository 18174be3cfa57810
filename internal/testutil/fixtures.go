package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// CreateVolunteer inserts an active volunteer with the given approval status.
func (f *Fixtures) CreateVolunteer(ctx context.Context, name, email, approval string) models.Volunteer {
	f.t.Helper()

	now := time.Now().UTC()
	v := models.Volunteer{
		ID:                 primitive.NewObjectID(),
		Name:               name,
		Email:              email,
		Phone:              "555-0100",
		Skills:             []string{"first aid"},
		Availability:       "weekends",
		AvailabilityStatus: models.AvailabilityAvailable,
		ApprovalStatus:     approval,
		Location:           "Wayne",
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	f.insert(ctx, "volunteers", v)
	return v
}

// CreateHelpRequest inserts a new, unassigned help request.
func (f *Fixtures) CreateHelpRequest(ctx context.Context, name, requestType, urgency string) models.HelpRequest {
	f.t.Helper()

	now := time.Now().UTC()
	hr := models.HelpRequest{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Location:    "Main St",
		Contact:     "555-0199",
		RequestType: requestType,
		Urgency:     urgency,
		Description: "needs help",
		Status:      models.RequestStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "help_requests", hr)
	return hr
}

// CreateAdminUser inserts an active admin account. The password hash is a
// placeholder; tests that log in should hash a real password instead.
func (f *Fixtures) CreateAdminUser(ctx context.Context, email, role string) models.AdminUser {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.AdminUser{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "admin_users", u)
	return u
}

// CreateInventoryItem inserts an inventory item.
func (f *Fixtures) CreateInventoryItem(ctx context.Context, name string, quantity, threshold int) models.InventoryItem {
	f.t.Helper()

	now := time.Now().UTC()
	item := models.InventoryItem{
		ID:                primitive.NewObjectID(),
		Name:              name,
		Category:          "Supplies",
		Quantity:          quantity,
		Location:          "Warehouse A",
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	f.insert(ctx, "inventory", item)
	return item.WithLowStock()
}
