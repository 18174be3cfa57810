package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PublicInfo is an in-memory store for the read-mostly dashboard collections.
type PublicInfo struct {
	mu        sync.Mutex
	clock     clock
	alerts    []models.Alert
	tiles     []models.StatusTile
	updates   []models.Update
	shelters  []models.Shelter
	resources []models.Resource
}

func (s *PublicInfo) ActiveAlert(_ context.Context) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []models.Alert
	for _, a := range s.alerts {
		if a.Status == models.AlertActive {
			active = append(active, a)
		}
	}
	if len(active) == 0 {
		return nil, nil
	}
	newestFirst(active, func(a models.Alert) time.Time { return a.UpdatedAt }, func(a models.Alert) primitive.ObjectID { return a.ID })
	return &active[0], nil
}

func (s *PublicInfo) Alerts(_ context.Context) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Alert{}, s.alerts...)
	newestFirst(out, func(a models.Alert) time.Time { return a.CreatedAt }, func(a models.Alert) primitive.ObjectID { return a.ID })
	return out, nil
}

func (s *PublicInfo) StatusTiles(_ context.Context) ([]models.StatusTile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.StatusTile{}, s.tiles...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *PublicInfo) Updates(_ context.Context, limit int64) ([]models.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Update{}, s.updates...)
	newestFirst(out, func(u models.Update) time.Time { return u.CreatedAt }, func(u models.Update) primitive.ObjectID { return u.ID })
	return limitSlice(out, limit), nil
}

func (s *PublicInfo) Shelters(_ context.Context, openOnly bool) ([]models.Shelter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Shelter{}
	for _, sh := range s.shelters {
		if !openOnly || sh.IsOpen {
			out = append(out, sh)
		}
	}
	newestFirst(out, func(sh models.Shelter) time.Time { return sh.CreatedAt }, func(sh models.Shelter) primitive.ObjectID { return sh.ID })
	return out, nil
}

func (s *PublicInfo) Resources(_ context.Context, limit int64) ([]models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Resource{}, s.resources...)
	newestFirst(out, func(r models.Resource) time.Time { return r.CreatedAt }, func(r models.Resource) primitive.ObjectID { return r.ID })
	return limitSlice(out, limit), nil
}

func (s *PublicInfo) SeedAlerts(_ context.Context, in []models.Alert) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.alerts) > 0 {
		return 0, nil
	}
	for _, a := range in {
		now := s.clock.now()
		a.ID, a.CreatedAt, a.UpdatedAt = primitive.NewObjectID(), now, now
		if a.Status == "" {
			a.Status = models.AlertActive
		}
		s.alerts = append(s.alerts, a)
	}
	return len(in), nil
}

func (s *PublicInfo) SeedStatusTiles(_ context.Context, in []models.StatusTile) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tiles) > 0 {
		return 0, nil
	}
	for _, t := range in {
		now := s.clock.now()
		t.ID, t.CreatedAt, t.UpdatedAt = primitive.NewObjectID(), now, now
		if t.Status == "" {
			t.Status = "info"
		}
		s.tiles = append(s.tiles, t)
	}
	return len(in), nil
}

// The remaining seeders insert in reverse so earlier entries are newer,
// matching the MongoDB store.

func (s *PublicInfo) SeedUpdates(_ context.Context, in []models.Update) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) > 0 {
		return 0, nil
	}
	for _, u := range slices.Backward(in) {
		now := s.clock.now()
		u.ID, u.CreatedAt, u.UpdatedAt = primitive.NewObjectID(), now, now
		s.updates = append(s.updates, u)
	}
	return len(in), nil
}

func (s *PublicInfo) SeedShelters(_ context.Context, in []models.Shelter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.shelters) > 0 {
		return 0, nil
	}
	for _, sh := range slices.Backward(in) {
		now := s.clock.now()
		sh.ID, sh.CreatedAt, sh.UpdatedAt = primitive.NewObjectID(), now, now
		s.shelters = append(s.shelters, sh)
	}
	return len(in), nil
}

func (s *PublicInfo) SeedResources(_ context.Context, in []models.Resource) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.resources) > 0 {
		return 0, nil
	}
	for _, r := range slices.Backward(in) {
		now := s.clock.now()
		r.ID, r.CreatedAt, r.UpdatedAt = primitive.NewObjectID(), now, now
		s.resources = append(s.resources, r)
	}
	return len(in), nil
}
