// internal/app/store/publicinfo/publicinfostore.go
package publicinfostore

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads the read-mostly public collections: alerts, status_tiles,
// updates, shelters and resources. Writes happen only through seeding.
type Store struct {
	alerts    *mongo.Collection
	tiles     *mongo.Collection
	updates   *mongo.Collection
	shelters  *mongo.Collection
	resources *mongo.Collection
}

// New creates a new public info store.
func New(db *mongo.Database) *Store {
	return &Store{
		alerts:    db.Collection("alerts"),
		tiles:     db.Collection("status_tiles"),
		updates:   db.Collection("updates"),
		shelters:  db.Collection("shelters"),
		resources: db.Collection("resources"),
	}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveAlert returns the most recently updated active alert, or nil if none.
func (s *Store) ActiveAlert(ctx context.Context) (*models.Alert, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	var a models.Alert
	err := s.alerts.FindOne(ctx, bson.M{"status": models.AlertActive}, opts).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Alerts returns every alert, newest first.
func (s *Store) Alerts(ctx context.Context) ([]models.Alert, error) {
	return findAll[models.Alert](ctx, s.alerts, bson.M{}, options.Find().SetSort(newestFirst))
}

// StatusTiles returns tiles in display order.
func (s *Store) StatusTiles(ctx context.Context) ([]models.StatusTile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: 1}})
	return findAll[models.StatusTile](ctx, s.tiles, bson.M{}, opts)
}

// Updates returns news items, newest first. limit <= 0 means all.
func (s *Store) Updates(ctx context.Context, limit int64) ([]models.Update, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[models.Update](ctx, s.updates, bson.M{}, opts)
}

// Shelters returns shelters, newest first, optionally only open ones.
func (s *Store) Shelters(ctx context.Context, openOnly bool) ([]models.Shelter, error) {
	filter := bson.M{}
	if openOnly {
		filter["is_open"] = true
	}
	return findAll[models.Shelter](ctx, s.shelters, filter, options.Find().SetSort(newestFirst))
}

// Resources returns preparedness resources, newest first. limit <= 0 means all.
func (s *Store) Resources(ctx context.Context, limit int64) ([]models.Resource, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[models.Resource](ctx, s.resources, bson.M{}, opts)
}

// insertIfEmpty inserts docs only when c has no documents.
// Returns the number inserted.
func insertIfEmpty(ctx context.Context, c *mongo.Collection, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	n, err := c.CountDocuments(ctx, bson.M{})
	if err != nil || n > 0 {
		return 0, err
	}
	if _, err := c.InsertMany(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// SeedAlerts inserts alerts when the collection is empty.
func (s *Store) SeedAlerts(ctx context.Context, in []models.Alert) (int, error) {
	now := time.Now().UTC()
	docs := make([]any, len(in))
	for i, a := range in {
		a.ID, a.CreatedAt, a.UpdatedAt = primitive.NewObjectID(), now, now
		if a.Status == "" {
			a.Status = models.AlertActive
		}
		docs[i] = a
	}
	return insertIfEmpty(ctx, s.alerts, docs)
}

// SeedStatusTiles inserts tiles when the collection is empty.
func (s *Store) SeedStatusTiles(ctx context.Context, in []models.StatusTile) (int, error) {
	now := time.Now().UTC()
	docs := make([]any, len(in))
	for i, t := range in {
		t.ID, t.CreatedAt, t.UpdatedAt = primitive.NewObjectID(), now, now
		if t.Status == "" {
			t.Status = "info"
		}
		docs[i] = t
	}
	return insertIfEmpty(ctx, s.tiles, docs)
}

// SeedUpdates inserts news items when the collection is empty. Earlier
// entries in the slice are treated as newer.
func (s *Store) SeedUpdates(ctx context.Context, in []models.Update) (int, error) {
	now := time.Now().UTC()
	docs := make([]any, len(in))
	for i, u := range in {
		at := now.Add(-time.Duration(i) * time.Second)
		u.ID, u.CreatedAt, u.UpdatedAt = primitive.NewObjectID(), at, at
		docs[i] = u
	}
	return insertIfEmpty(ctx, s.updates, docs)
}

// SeedShelters inserts shelters when the collection is empty.
func (s *Store) SeedShelters(ctx context.Context, in []models.Shelter) (int, error) {
	now := time.Now().UTC()
	docs := make([]any, len(in))
	for i, sh := range in {
		at := now.Add(-time.Duration(i) * time.Second)
		sh.ID, sh.CreatedAt, sh.UpdatedAt = primitive.NewObjectID(), at, at
		docs[i] = sh
	}
	return insertIfEmpty(ctx, s.shelters, docs)
}

// SeedResources inserts resources when the collection is empty.
func (s *Store) SeedResources(ctx context.Context, in []models.Resource) (int, error) {
	now := time.Now().UTC()
	docs := make([]any, len(in))
	for i, r := range in {
		at := now.Add(-time.Duration(i) * time.Second)
		r.ID, r.CreatedAt, r.UpdatedAt = primitive.NewObjectID(), at, at
		docs[i] = r
	}
	return insertIfEmpty(ctx, s.resources, docs)
}
