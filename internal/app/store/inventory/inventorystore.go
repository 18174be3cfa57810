// internal/app/store/inventory/inventorystore.go
package inventorystore

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the inventory collection.
// Every item it returns has IsLowStock computed.
type Store struct {
	c *mongo.Collection
}

// New creates a new inventory store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("inventory")}
}

// List returns all items, most recently updated first.
func (s *Store) List(ctx context.Context) ([]models.InventoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.InventoryItem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = out[i].WithLowStock()
	}
	return out, nil
}

// Create inserts an item.
func (s *Store) Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	now := time.Now().UTC()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}
	return item.WithLowStock(), nil
}

// GetByID loads an item. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return models.InventoryItem{}, err
	}
	return item.WithLowStock(), nil
}

// Update applies upd and returns the updated item.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd models.InventoryUpdate) (models.InventoryItem, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.LowStockThreshold != nil {
		set["low_stock_threshold"] = *upd.LowStockThreshold
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.InventoryItem
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item); err != nil {
		return models.InventoryItem{}, err
	}
	return item.WithLowStock(), nil
}

// Delete removes an item and returns what was removed.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return models.InventoryItem{}, err
	}
	return item.WithLowStock(), nil
}

// Totals sums quantity and counts items across the collection.
func (s *Store) Totals(ctx context.Context) (models.InventoryTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_quantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "item_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.InventoryTotals{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalQuantity int64 `bson:"total_quantity"`
		ItemCount     int64 `bson:"item_count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return models.InventoryTotals{}, err
	}
	if len(rows) == 0 {
		return models.InventoryTotals{}, nil
	}
	return models.InventoryTotals{TotalQuantity: rows[0].TotalQuantity, ItemCount: rows[0].ItemCount}, nil
}

// SeedIfEmpty inserts items only when the collection has none.
// Returns the number inserted.
func (s *Store) SeedIfEmpty(ctx context.Context, items []models.InventoryItem) (int, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil || n > 0 || len(items) == 0 {
		return 0, err
	}
	now := time.Now().UTC()
	docs := make([]any, len(items))
	for i, item := range items {
		item.ID = primitive.NewObjectID()
		item.CreatedAt = now
		item.UpdatedAt = now
		docs[i] = item
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}
