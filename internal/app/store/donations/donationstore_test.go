package donationstore_test

import (
	"testing"

	donationstore "github.com/dalemusser/reliefhub/internal/app/store/donations"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, models.Donation{Reference: "DON-1", Name: "Lee", Email: "lee@example.com", Amount: 25})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.ID.IsZero() || first.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}
	if _, err := store.Create(ctx, models.Donation{Reference: "DON-2", Name: "Kim", Email: "kim@example.com", Amount: 10.5, Message: "stay safe"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 donations, got %d", len(list))
	}
	if list[0].Reference != "DON-2" {
		t.Errorf("expected newest first, got %q", list[0].Reference)
	}
	if list[0].Amount != 10.5 {
		t.Errorf("Amount: got %v", list[0].Amount)
	}
}
