package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donations is an in-memory donation store.
type Donations struct {
	mu    sync.Mutex
	clock clock
	items []models.Donation
}

func (s *Donations) Create(_ context.Context, d models.Donation) (models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.now()
	d.ID = primitive.NewObjectID()
	d.CreatedAt, d.UpdatedAt = now, now
	s.items = append(s.items, d)
	return d, nil
}

func (s *Donations) List(_ context.Context) ([]models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.items)
	if out == nil {
		out = []models.Donation{}
	}
	newestFirst(out, func(d models.Donation) time.Time { return d.CreatedAt }, func(d models.Donation) primitive.ObjectID { return d.ID })
	return out, nil
}
