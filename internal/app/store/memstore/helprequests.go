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

// HelpRequests is an in-memory help request store.
type HelpRequests struct {
	mu    sync.Mutex
	clock clock
	items []models.HelpRequest
}

func (s *HelpRequests) find(id primitive.ObjectID) int {
	return slices.IndexFunc(s.items, func(hr models.HelpRequest) bool { return hr.ID == id })
}

func matchRequest(hr models.HelpRequest, f models.HelpRequestFilter) bool {
	switch {
	case f.Status != "":
		if hr.Status != f.Status {
			return false
		}
	case len(f.Statuses) > 0:
		if !slices.Contains(f.Statuses, hr.Status) {
			return false
		}
	}
	return f.Urgency == "" || hr.Urgency == f.Urgency
}

func (s *HelpRequests) Create(_ context.Context, hr models.HelpRequest) (models.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.now()
	hr.ID = primitive.NewObjectID()
	hr.CreatedAt, hr.UpdatedAt = now, now
	s.items = append(s.items, hr)
	return hr, nil
}

func (s *HelpRequests) GetByID(_ context.Context, id primitive.ObjectID) (models.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(id); i >= 0 {
		return s.items[i], nil
	}
	return models.HelpRequest{}, mongo.ErrNoDocuments
}

func (s *HelpRequests) List(_ context.Context, f models.HelpRequestFilter) ([]models.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.HelpRequest{}
	for _, hr := range s.items {
		if matchRequest(hr, f) {
			out = append(out, hr)
		}
	}
	newestFirst(out, func(hr models.HelpRequest) time.Time { return hr.CreatedAt }, func(hr models.HelpRequest) primitive.ObjectID { return hr.ID })
	return out, nil
}

func (s *HelpRequests) Update(_ context.Context, id primitive.ObjectID, upd models.HelpRequestUpdate) (models.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return models.HelpRequest{}, mongo.ErrNoDocuments
	}
	hr := &s.items[i]
	if upd.Status != nil {
		hr.Status = *upd.Status
	}
	if upd.SetVolunteer {
		if upd.Volunteer == nil {
			hr.AssignedVolunteer = nil
		} else {
			v := *upd.Volunteer
			hr.AssignedVolunteer = &v
		}
	}
	hr.UpdatedAt = s.clock.now()
	return *hr, nil
}

func (s *HelpRequests) DetachVolunteer(_ context.Context, volunteerID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.items {
		hr := &s.items[i]
		if hr.AssignedVolunteer == nil || *hr.AssignedVolunteer != volunteerID {
			continue
		}
		if hr.Status != models.RequestStatusNew && hr.Status != models.RequestStatusInProgress {
			continue
		}
		hr.AssignedVolunteer = nil
		hr.Status = models.RequestStatusNew
		hr.UpdatedAt = s.clock.now()
		n++
	}
	return n, nil
}

func (s *HelpRequests) Count(_ context.Context, f models.HelpRequestFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, hr := range s.items {
		if matchRequest(hr, f) {
			n++
		}
	}
	return n, nil
}

// CountBy supports the fields the analytics service groups on.
func (s *HelpRequests) CountBy(_ context.Context, field string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	for _, hr := range s.items {
		var key string
		switch field {
		case "urgency":
			key = hr.Urgency
		case "request_type":
			key = hr.RequestType
		case "status":
			key = hr.Status
		}
		if key != "" {
			out[key]++
		}
	}
	return out, nil
}
