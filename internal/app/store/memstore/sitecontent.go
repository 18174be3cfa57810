package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SiteContent is an in-memory site content singleton.
type SiteContent struct {
	mu    sync.Mutex
	clock clock
	doc   *models.SiteContent
}

func cloneSiteContent(d models.SiteContent) models.SiteContent {
	d.HotlineNumbers = slices.Clone(d.HotlineNumbers)
	d.Announcements = slices.Clone(d.Announcements)
	if d.Announcements == nil {
		d.Announcements = []models.Announcement{}
	}
	return d
}

// ensure must be called with mu held.
func (s *SiteContent) ensure() *models.SiteContent {
	if s.doc == nil {
		d := models.NewSiteContent(s.clock.now())
		d.ID = primitive.NewObjectID()
		s.doc = &d
	}
	return s.doc
}

func (s *SiteContent) Get(_ context.Context) (models.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSiteContent(*s.ensure()), nil
}

func (s *SiteContent) SetEmergencyMessage(_ context.Context, msg string) (models.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.ensure()
	d.EmergencyMessage = msg
	d.UpdatedAt = s.clock.now()
	return cloneSiteContent(*d), nil
}

func (s *SiteContent) SetHotlines(_ context.Context, hotlines []string) (models.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.ensure()
	d.HotlineNumbers = slices.Clone(hotlines)
	d.UpdatedAt = s.clock.now()
	return cloneSiteContent(*d), nil
}

func (s *SiteContent) PrependAnnouncement(_ context.Context, a models.Announcement) (models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.ensure()
	now := s.clock.now()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt, a.UpdatedAt = now, now
	d.Announcements = append([]models.Announcement{a}, d.Announcements...)
	d.UpdatedAt = now
	return a, nil
}

func (s *SiteContent) SetAnnouncementPublished(_ context.Context, id primitive.ObjectID, published bool) (models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.ensure()
	for i := range d.Announcements {
		if d.Announcements[i].ID == id {
			now := s.clock.now()
			d.Announcements[i].Published = published
			d.Announcements[i].UpdatedAt = now
			d.UpdatedAt = now
			return d.Announcements[i], nil
		}
	}
	return models.Announcement{}, mongo.ErrNoDocuments
}
