package publicinfostore_test

import (
	"testing"

	publicinfostore "github.com/dalemusser/reliefhub/internal/app/store/publicinfo"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

func TestStore_ActiveAlert_NoneWhenEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := publicinfostore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.ActiveAlert(ctx)
	if err != nil {
		t.Fatalf("ActiveAlert failed: %v", err)
	}
	if a != nil {
		t.Errorf("expected nil alert, got %+v", a)
	}
}

func TestStore_SeedAndRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := publicinfostore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.SeedAlerts(ctx, []models.Alert{
		{Type: "Old Warning", Severity: models.SeverityModerate, Status: models.AlertResolved},
		{Type: "Flood Warning", Severity: models.SeverityHigh},
	}); err != nil {
		t.Fatalf("SeedAlerts failed: %v", err)
	}
	a, err := store.ActiveAlert(ctx)
	if err != nil {
		t.Fatalf("ActiveAlert failed: %v", err)
	}
	if a == nil || a.Type != "Flood Warning" {
		t.Errorf("expected the active alert, got %+v", a)
	}

	if _, err := store.SeedStatusTiles(ctx, []models.StatusTile{
		{Label: "Roads", DisplayOrder: 2},
		{Label: "Power", DisplayOrder: 1},
	}); err != nil {
		t.Fatalf("SeedStatusTiles failed: %v", err)
	}
	tiles, err := store.StatusTiles(ctx)
	if err != nil {
		t.Fatalf("StatusTiles failed: %v", err)
	}
	if len(tiles) != 2 || tiles[0].Label != "Power" {
		t.Errorf("expected display order, got %+v", tiles)
	}

	updates := make([]models.Update, 10)
	for i := range updates {
		updates[i] = models.Update{Title: "u", Category: "news"}
	}
	updates[0].Title = "latest"
	if _, err := store.SeedUpdates(ctx, updates); err != nil {
		t.Fatalf("SeedUpdates failed: %v", err)
	}
	got, err := store.Updates(ctx, models.DashboardUpdateLimit)
	if err != nil {
		t.Fatalf("Updates failed: %v", err)
	}
	if len(got) != models.DashboardUpdateLimit || got[0].Title != "latest" {
		t.Errorf("expected %d updates with latest first, got %d (%q)", models.DashboardUpdateLimit, len(got), got[0].Title)
	}
	all, _ := store.Updates(ctx, 0)
	if len(all) != 10 {
		t.Errorf("limit 0 should return all, got %d", len(all))
	}

	if _, err := store.SeedShelters(ctx, []models.Shelter{
		{Name: "Open", IsOpen: true, Capacity: 100},
		{Name: "Closed", IsOpen: false},
	}); err != nil {
		t.Fatalf("SeedShelters failed: %v", err)
	}
	open, _ := store.Shelters(ctx, true)
	if len(open) != 1 || open[0].Name != "Open" {
		t.Errorf("expected only open shelter, got %+v", open)
	}
	everything, _ := store.Shelters(ctx, false)
	if len(everything) != 2 {
		t.Errorf("expected 2 shelters, got %d", len(everything))
	}
}

func TestStore_SeedIsNoOpWhenPopulated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := publicinfostore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := []models.Resource{{Title: "Kit", Type: "preparedness"}}
	if n, err := store.SeedResources(ctx, in); err != nil || n != 1 {
		t.Fatalf("first seed: n=%d err=%v", n, err)
	}
	if n, err := store.SeedResources(ctx, in); err != nil || n != 0 {
		t.Fatalf("second seed: n=%d err=%v", n, err)
	}
	res, err := store.Resources(ctx, models.DashboardResourceLimit)
	if err != nil || len(res) != 1 {
		t.Errorf("Resources: %v, %v", res, err)
	}
}
