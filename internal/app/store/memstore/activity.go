package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is an in-memory activity log. Err, when set, is returned by
// Append so tests can exercise audit failures.
type Activity struct {
	mu    sync.Mutex
	clock clock
	items []models.ActivityLog
	Err   error
}

func (s *Activity) Append(_ context.Context, entry models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock.now()
	}
	entry.Details = activity.Truncate(entry.Details)
	s.items = append(s.items, entry)
	return nil
}

func (s *Activity) Recent(_ context.Context, limit int64) ([]models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.items)
	if out == nil {
		out = []models.ActivityLog{}
	}
	newestFirst(out, func(e models.ActivityLog) time.Time { return e.CreatedAt }, func(e models.ActivityLog) primitive.ObjectID { return e.ID })
	return limitSlice(out, limit), nil
}

// Entries returns every entry in insertion order.
func (s *Activity) Entries() []models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}
