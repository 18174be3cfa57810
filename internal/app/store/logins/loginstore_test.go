package loginstore_test

import (
	"net/http/httptest"
	"testing"
	"time"

	loginstore "github.com/dalemusser/reliefhub/internal/app/store/logins"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	if err := store.Create(ctx, models.LoginRecord{AdminID: adminID, Email: "ops@example.com", IP: "192.168.1.1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var found models.LoginRecord
	if err := db.Collection("admin_logins").FindOne(ctx, bson.M{"admin_id": adminID}).Decode(&found); err != nil {
		t.Fatalf("failed to find login record: %v", err)
	}
	if found.IP != "192.168.1.1" || found.Email != "ops@example.com" {
		t.Errorf("got %+v", found)
	}
	if found.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set automatically")
	}
}

func TestStore_RecordLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/api/admin/auth/login", nil)
	req.RemoteAddr = "203.0.113.50:41000"
	req.Header.Set("User-Agent", "curl/8.0")

	if err := store.RecordLogin(ctx, req, adminID, "ops@example.com"); err != nil {
		t.Fatalf("RecordLogin failed: %v", err)
	}

	recs, err := store.Recent(ctx, adminID, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].IP != "203.0.113.50" || recs[0].UserAgent != "curl/8.0" {
		t.Errorf("got %+v", recs[0])
	}
}

func TestStore_RecentOrderAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i := range 3 {
		rec := models.LoginRecord{AdminID: adminID, IP: "10.0.0.1", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.Create(ctx, rec); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	_ = store.Create(ctx, models.LoginRecord{AdminID: primitive.NewObjectID(), IP: "10.0.0.2"})

	recs, err := store.Recent(ctx, adminID, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if !recs[0].CreatedAt.After(recs[1].CreatedAt) {
		t.Error("expected newest first")
	}
}

func TestStore_DeleteOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	now := time.Now().UTC()
	for _, age := range []time.Duration{100 * 24 * time.Hour, 95 * 24 * time.Hour, time.Hour} {
		if err := store.Create(ctx, models.LoginRecord{AdminID: adminID, CreatedAt: now.Add(-age)}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := store.DeleteOlderThan(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	recs, _ := store.Recent(ctx, adminID, 10)
	if len(recs) != 1 {
		t.Errorf("remaining %d, want 1", len(recs))
	}
}
