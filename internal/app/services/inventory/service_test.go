package inventory_test

import (
	"context"
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/services/inventory"
	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	"github.com/dalemusser/reliefhub/internal/app/store/memstore"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var actor = models.Actor{Email: "ops@example.com"}

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*memstore.DB, *inventory.Service) {
	t.Helper()
	db := memstore.New()
	audit := auditlog.New(db.Activity, zap.NewNop(), auditlog.Config{})
	return db, inventory.New(db.Inventory, audit, zap.NewNop())
}

func TestCreate_DefaultThresholdAndLowStock(t *testing.T) {
	db, svc := setup(t)
	item, err := svc.Create(context.Background(), actor, inventory.CreateInput{
		Name: " Water bottles ", Category: "Water", Quantity: ptr(8), Location: "Depot A",
	})
	require.NoError(t, err)
	assert.Equal(t, "Water bottles", item.Name)
	assert.Equal(t, models.DefaultLowStockThreshold, item.LowStockThreshold)
	assert.True(t, item.IsLowStock)

	entries := db.Activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionInventoryCreated, entries[0].Action)
	assert.Equal(t, "Inventory item Water bottles created with qty 8", entries[0].Details)
}

func TestCreate_Threshold(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, actor, inventory.CreateInput{
		Name: "Cots", Category: "Shelter", Quantity: ptr(40), LowStockThreshold: ptr(50),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, item.LowStockThreshold)
	assert.True(t, item.IsLowStock)

	item, err = svc.Create(ctx, actor, inventory.CreateInput{
		Name: "Tarps", Category: "Shelter", Quantity: ptr(0), LowStockThreshold: ptr(-3),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLowStockThreshold, item.LowStockThreshold)
	assert.Equal(t, 0, item.Quantity)
}

func TestCreate_InvalidPayload(t *testing.T) {
	_, svc := setup(t)
	cases := map[string]inventory.CreateInput{
		"missing name":     {Category: "Food", Quantity: ptr(1)},
		"missing category": {Name: "Rice", Quantity: ptr(1)},
		"missing quantity": {Name: "Rice", Category: "Food"},
		"negative":         {Name: "Rice", Category: "Food", Quantity: ptr(-1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), actor, in)
			require.Error(t, err)
			assert.Equal(t, 400, apperr.Status(err))
			assert.Equal(t, inventory.MsgInvalidPayload, apperr.Message(err))
		})
	}
}

func TestUpdate_Partial(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	item, err := svc.Create(ctx, actor, inventory.CreateInput{
		Name: "Blankets", Category: "Shelter", Quantity: ptr(5), Location: "Gym",
	})
	require.NoError(t, err)

	got, err := svc.Update(ctx, actor, item.ID.Hex(), inventory.UpdateInput{Quantity: ptr(25)})
	require.NoError(t, err)
	assert.Equal(t, 25, got.Quantity)
	assert.Equal(t, "Gym", got.Location)
	assert.False(t, got.IsLowStock)

	got, err = svc.Update(ctx, actor, item.ID.Hex(), inventory.UpdateInput{Location: ptr("  Annex ")})
	require.NoError(t, err)
	assert.Equal(t, "Annex", got.Location)
	assert.Equal(t, 25, got.Quantity)

	entries := db.Activity.Entries()
	assert.Equal(t, "Inventory item Blankets updated", entries[len(entries)-1].Details)
}

func TestUpdate_Errors(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	item, err := svc.Create(ctx, actor, inventory.CreateInput{Name: "Rice", Category: "Food", Quantity: ptr(5)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, actor, item.ID.Hex(), inventory.UpdateInput{Quantity: ptr(-1)})
	assert.Equal(t, inventory.MsgInvalidQuantity, apperr.Message(err))

	_, err = svc.Update(ctx, actor, item.ID.Hex(), inventory.UpdateInput{LowStockThreshold: ptr(-1)})
	assert.Equal(t, inventory.MsgInvalidThreshold, apperr.Message(err))

	_, err = svc.Update(ctx, actor, primitive.NewObjectID().Hex(), inventory.UpdateInput{Quantity: ptr(1)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDelete(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	item, err := svc.Create(ctx, actor, inventory.CreateInput{Name: "Rice", Category: "Food", Quantity: ptr(5)})
	require.NoError(t, err)

	id, err := svc.Delete(ctx, actor, item.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, item.ID, id)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	entries := db.Activity.Entries()
	assert.Equal(t, "Inventory item Rice removed", entries[len(entries)-1].Details)

	_, err = svc.Delete(ctx, actor, item.ID.Hex())
	assert.Equal(t, inventory.MsgNotFound, apperr.Message(err))
}

func TestList_RecentlyUpdatedFirst(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, actor, inventory.CreateInput{Name: "A", Category: "Food", Quantity: ptr(1)})
	require.NoError(t, err)
	b, err := svc.Create(ctx, actor, inventory.CreateInput{Name: "B", Category: "Food", Quantity: ptr(1)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, actor, a.ID.Hex(), inventory.UpdateInput{Quantity: ptr(2)})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}
