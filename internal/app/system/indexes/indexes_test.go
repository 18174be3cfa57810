package indexes_test

import (
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/system/indexes"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesNamedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"help_requests": {"idx_help_requests_status_urgency_created", "idx_help_requests_created_id", "idx_help_requests_volunteer_status"},
		"volunteers":    {"idx_volunteers_active_approval_availability_created", "idx_volunteers_email"},
		"inventory":     {"idx_inventory_updated_id"},
		"site_content":  {"uniq_site_content_key"},
		"admin_users":   {"uniq_admin_users_email", "idx_admin_users_active_role"},
		"activity_logs": {"idx_activity_logs_created_id"},
		"admin_logins":  {"idx_admin_logins_admin_created"},
		"donations":     {"idx_donations_created_id", "uniq_donations_reference"},
		"alerts":        {"idx_alerts_status_updated", "idx_alerts_created"},
		"status_tiles":  {"idx_status_tiles_order_created"},
		"updates":       {"idx_updates_created"},
		"shelters":      {"idx_shelters_open_created"},
		"resources":     {"idx_resources_created"},
	}
	for coll, want := range expected {
		names := indexNames(t, db, coll)
		for _, name := range want {
			if !names[name] {
				t.Errorf("%s: expected index %q to exist", coll, name)
			}
		}
	}
}

func TestEnsureAll_RenamesMisnamedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("inventory").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("legacy_inventory_sort"),
	})
	if err != nil {
		t.Fatalf("create legacy index failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db, "inventory")
	if names["legacy_inventory_sort"] {
		t.Error("expected legacy index name to be replaced")
	}
	if !names["idx_inventory_updated_id"] {
		t.Error("expected idx_inventory_updated_id to exist")
	}
}

func TestEnsureAll_UniqueIndexEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("admin_users").InsertOne(ctx, bson.M{"email": "ops@example.com"}); err != nil {
		t.Fatalf("Insert admin user failed: %v", err)
	}
	if _, err := db.Collection("admin_users").InsertOne(ctx, bson.M{"email": "ops@example.com"}); err == nil {
		t.Error("expected duplicate key error for unique index on admin_users.email")
	}
}

func TestEnsureAll_ReportsDuplicatesBlockingUniqueIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if _, err := db.Collection("site_content").InsertOne(ctx, bson.M{"singleton_key": "site-content"}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	err := indexes.EnsureAll(ctx, db)
	if err == nil {
		t.Fatal("expected EnsureAll to fail while duplicates exist")
	}
}
