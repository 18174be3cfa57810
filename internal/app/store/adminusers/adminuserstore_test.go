package adminuserstore_test

import (
	"errors"
	"testing"

	adminuserstore "github.com/dalemusser/reliefhub/internal/app/store/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/indexes"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_NormalizesEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminuserstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.AdminUser{Email: "  Ops@Example.COM ", PasswordHash: "h", Role: models.RoleAdmin, IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.Email != "ops@example.com" {
		t.Errorf("Email: got %q", u.Email)
	}

	got, err := store.GetByEmail(ctx, "OPS@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Error("GetByEmail returned a different user")
	}
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := adminuserstore.New(db)

	if _, err := store.Create(ctx, models.AdminUser{Email: "a@example.com", Role: models.RoleAdmin, IsActive: true}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.AdminUser{Email: "A@example.com", Role: models.RoleAdmin, IsActive: true})
	if !errors.Is(err, adminuserstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_ListActiveAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminuserstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root := fx.CreateAdminUser(ctx, "root@example.com", models.RoleSuperAdmin)
	fx.CreateAdminUser(ctx, "ops@example.com", models.RoleAdmin)
	gone := fx.CreateAdminUser(ctx, "gone@example.com", models.RoleSuperAdmin)

	inactive := false
	if _, err := store.Update(ctx, gone.ID, models.AdminUserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	list, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 active users, got %d", len(list))
	}

	n, err := store.CountActiveSuperAdmins(ctx)
	if err != nil {
		t.Fatalf("CountActiveSuperAdmins failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 active super-admin, got %d", n)
	}

	role := models.RoleAdmin
	got, err := store.Update(ctx, root.ID, models.AdminUserUpdate{Role: &role})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("Role: got %q", got.Role)
	}
}

func TestStore_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminuserstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	active := fx.CreateAdminUser(ctx, "ops@example.com", models.RoleAdmin)
	u, err := store.FetchUser(ctx, active.ID)
	if err != nil {
		t.Fatalf("FetchUser failed: %v", err)
	}
	if u == nil || u.Email != "ops@example.com" || u.Role != models.RoleAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}

	inactive := false
	if _, err := store.Update(ctx, active.ID, models.AdminUserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	u, err = store.FetchUser(ctx, active.ID)
	if err != nil || u != nil {
		t.Errorf("inactive user should yield nil, nil; got %v, %v", u, err)
	}

	u, err = store.FetchUser(ctx, primitive.NewObjectID())
	if err != nil || u != nil {
		t.Errorf("missing user should yield nil, nil; got %v, %v", u, err)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}
