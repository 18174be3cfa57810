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

// Volunteers is an in-memory volunteer store.
type Volunteers struct {
	mu    sync.Mutex
	clock clock
	items []models.Volunteer
}

func (s *Volunteers) find(id primitive.ObjectID) int {
	return slices.IndexFunc(s.items, func(v models.Volunteer) bool { return v.ID == id })
}

func matchVolunteer(v models.Volunteer, f models.VolunteerFilter) bool {
	if f.ActiveOnly && !v.IsActive {
		return false
	}
	if f.ApprovalStatus != "" && v.ApprovalStatus != f.ApprovalStatus {
		return false
	}
	return f.AvailabilityStatus == "" || v.AvailabilityStatus == f.AvailabilityStatus
}

func copyVolunteer(v models.Volunteer) models.Volunteer {
	v.Skills = slices.Clone(v.Skills)
	return v
}

func (s *Volunteers) Create(_ context.Context, v models.Volunteer) (models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.now()
	v.ID = primitive.NewObjectID()
	v.CreatedAt, v.UpdatedAt = now, now
	if v.Skills == nil {
		v.Skills = []string{}
	}
	s.items = append(s.items, copyVolunteer(v))
	return v, nil
}

func (s *Volunteers) get(id primitive.ObjectID, ok func(models.Volunteer) bool) (models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(id); i >= 0 && ok(s.items[i]) {
		return copyVolunteer(s.items[i]), nil
	}
	return models.Volunteer{}, mongo.ErrNoDocuments
}

func (s *Volunteers) GetByID(_ context.Context, id primitive.ObjectID) (models.Volunteer, error) {
	return s.get(id, func(models.Volunteer) bool { return true })
}

func (s *Volunteers) GetActive(_ context.Context, id primitive.ObjectID) (models.Volunteer, error) {
	return s.get(id, func(v models.Volunteer) bool { return v.IsActive })
}

func (s *Volunteers) GetAssignable(_ context.Context, id primitive.ObjectID) (models.Volunteer, error) {
	return s.get(id, models.Volunteer.Assignable)
}

func (s *Volunteers) List(_ context.Context, f models.VolunteerFilter) ([]models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Volunteer{}
	for _, v := range s.items {
		if matchVolunteer(v, f) {
			out = append(out, copyVolunteer(v))
		}
	}
	newestFirst(out, func(v models.Volunteer) time.Time { return v.CreatedAt }, func(v models.Volunteer) primitive.ObjectID { return v.ID })
	return out, nil
}

func (s *Volunteers) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Volunteer{}
	for _, v := range s.items {
		if slices.Contains(ids, v.ID) {
			out = append(out, copyVolunteer(v))
		}
	}
	return out, nil
}

func (s *Volunteers) Update(_ context.Context, id primitive.ObjectID, upd models.VolunteerUpdate) (models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return models.Volunteer{}, mongo.ErrNoDocuments
	}
	v := &s.items[i]
	if upd.ApprovalStatus != nil {
		v.ApprovalStatus = *upd.ApprovalStatus
	}
	if upd.AvailabilityStatus != nil {
		v.AvailabilityStatus = *upd.AvailabilityStatus
	}
	if upd.AssignedTask != nil {
		v.AssignedTask = *upd.AssignedTask
	}
	if upd.IsActive != nil {
		v.IsActive = *upd.IsActive
	}
	v.UpdatedAt = s.clock.now()
	return copyVolunteer(*v), nil
}

func (s *Volunteers) Count(_ context.Context, f models.VolunteerFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, v := range s.items {
		if matchVolunteer(v, f) {
			n++
		}
	}
	return n, nil
}
