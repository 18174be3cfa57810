package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Inventory is an in-memory inventory store.
type Inventory struct {
	mu    sync.Mutex
	clock clock
	items []models.InventoryItem
}

func (s *Inventory) find(id primitive.ObjectID) int {
	return slices.IndexFunc(s.items, func(it models.InventoryItem) bool { return it.ID == id })
}

func (s *Inventory) List(_ context.Context) ([]models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InventoryItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.WithLowStock())
	}
	newestFirst(out, func(it models.InventoryItem) time.Time { return it.UpdatedAt }, func(it models.InventoryItem) primitive.ObjectID { return it.ID })
	return out, nil
}

func (s *Inventory) Create(_ context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.now()
	item.ID = primitive.NewObjectID()
	item.CreatedAt, item.UpdatedAt = now, now
	item.IsLowStock = false
	s.items = append(s.items, item)
	return item.WithLowStock(), nil
}

func (s *Inventory) GetByID(_ context.Context, id primitive.ObjectID) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(id); i >= 0 {
		return s.items[i].WithLowStock(), nil
	}
	return models.InventoryItem{}, mongo.ErrNoDocuments
}

func (s *Inventory) Update(_ context.Context, id primitive.ObjectID, upd models.InventoryUpdate) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return models.InventoryItem{}, mongo.ErrNoDocuments
	}
	it := &s.items[i]
	if upd.Name != nil {
		it.Name = *upd.Name
	}
	if upd.Category != nil {
		it.Category = *upd.Category
	}
	if upd.Location != nil {
		it.Location = *upd.Location
	}
	if upd.Quantity != nil {
		it.Quantity = *upd.Quantity
	}
	if upd.LowStockThreshold != nil {
		it.LowStockThreshold = *upd.LowStockThreshold
	}
	it.UpdatedAt = s.clock.now()
	return it.WithLowStock(), nil
}

func (s *Inventory) Delete(_ context.Context, id primitive.ObjectID) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return models.InventoryItem{}, mongo.ErrNoDocuments
	}
	it := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	return it.WithLowStock(), nil
}

func (s *Inventory) Totals(_ context.Context) (models.InventoryTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t models.InventoryTotals
	for _, it := range s.items {
		t.TotalQuantity += int64(it.Quantity)
		t.ItemCount++
	}
	return t, nil
}

func (s *Inventory) SeedIfEmpty(ctx context.Context, items []models.InventoryItem) (int, error) {
	s.mu.Lock()
	populated := len(s.items) > 0
	s.mu.Unlock()
	if populated {
		return 0, nil
	}
	for _, it := range items {
		if _, err := s.Create(ctx, it); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}
