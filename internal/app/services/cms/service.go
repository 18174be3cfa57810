// Package cms edits the singleton site content: the emergency banner,
// hotline numbers, and announcements.
package cms

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	MsgEmergencyRequired    = "Emergency message is required"
	MsgHotlineRequired      = "At least one hotline number is required"
	MsgAnnouncementRequired = "Announcement title and body are required"
	MsgAnnouncementNotFound = "Announcement not found"
)

const (
	maxEmergencyLen = 180
	maxHotlineLen   = 40
	maxTitleLen     = 140
	maxBodyLen      = 1200
)

// Store is the site content persistence the service needs. Get creates the
// document with defaults on first access.
type Store interface {
	Get(ctx context.Context) (models.SiteContent, error)
	SetEmergencyMessage(ctx context.Context, msg string) (models.SiteContent, error)
	SetHotlines(ctx context.Context, hotlines []string) (models.SiteContent, error)
	PrependAnnouncement(ctx context.Context, a models.Announcement) (models.Announcement, error)
	SetAnnouncementPublished(ctx context.Context, id primitive.ObjectID, published bool) (models.Announcement, error)
}

// Auditor records admin actions.
type Auditor interface {
	Record(ctx context.Context, actor models.Actor, action, details string) error
}

type Service struct {
	store Store
	audit Auditor
	log   *zap.Logger
}

func New(store Store, audit Auditor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, audit: audit, log: log}
}

// Content returns the full document for the admin editor.
func (s *Service) Content(ctx context.Context) (models.SiteContent, error) {
	doc, err := s.store.Get(ctx)
	if err != nil {
		return models.SiteContent{}, apperr.Internal("Failed to load site content", err)
	}
	return doc, nil
}

// PublicInfo returns the banner, hotlines and at most
// models.PublicAnnouncementLimit published announcements, newest first.
func (s *Service) PublicInfo(ctx context.Context) (models.PublicSiteInfo, error) {
	doc, err := s.Content(ctx)
	if err != nil {
		return models.PublicSiteInfo{}, err
	}
	published := make([]models.Announcement, 0, models.PublicAnnouncementLimit)
	for _, a := range doc.Announcements {
		if a.Published {
			published = append(published, a)
		}
	}
	slices.SortStableFunc(published, func(a, b models.Announcement) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(published) > models.PublicAnnouncementLimit {
		published = published[:models.PublicAnnouncementLimit]
	}
	hotlines := doc.HotlineNumbers
	if hotlines == nil {
		hotlines = []string{}
	}
	return models.PublicSiteInfo{
		EmergencyMessage: doc.EmergencyMessage,
		HotlineNumbers:   hotlines,
		Announcements:    published,
	}, nil
}

func (s *Service) SetEmergencyMessage(ctx context.Context, actor models.Actor, msg string) (models.SiteContent, error) {
	msg = htmlsanitize.StripTags(msg)
	if msg == "" {
		return models.SiteContent{}, apperr.Validation(MsgEmergencyRequired)
	}
	if utf8.RuneCountInString(msg) > maxEmergencyLen {
		return models.SiteContent{}, apperr.Validation(fmt.Sprintf("Emergency message must be at most %d characters.", maxEmergencyLen))
	}
	doc, err := s.store.SetEmergencyMessage(ctx, msg)
	if err != nil {
		return models.SiteContent{}, apperr.Internal("Failed to save site content", err)
	}
	if err := s.record(ctx, actor, activity.ActionCMSEmergency, "Homepage emergency message updated"); err != nil {
		return models.SiteContent{}, err
	}
	return doc, nil
}

// SetHotlines trims the list, drops blanks and keeps the first
// models.MaxHotlines entries. At least one must remain.
func (s *Service) SetHotlines(ctx context.Context, actor models.Actor, hotlines []string) (models.SiteContent, error) {
	hotlines = normalize.List(hotlines, models.MaxHotlines)
	if len(hotlines) == 0 {
		return models.SiteContent{}, apperr.Validation(MsgHotlineRequired)
	}
	for _, h := range hotlines {
		if utf8.RuneCountInString(h) > maxHotlineLen {
			return models.SiteContent{}, apperr.Validation(fmt.Sprintf("Hotline numbers must be at most %d characters.", maxHotlineLen))
		}
	}
	doc, err := s.store.SetHotlines(ctx, hotlines)
	if err != nil {
		return models.SiteContent{}, apperr.Internal("Failed to save site content", err)
	}
	details := fmt.Sprintf("Hotline numbers updated (%d entries)", len(hotlines))
	if err := s.record(ctx, actor, activity.ActionCMSHotlines, details); err != nil {
		return models.SiteContent{}, err
	}
	return doc, nil
}

// AnnouncementInput is the new-announcement form. Published defaults to true.
type AnnouncementInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published *bool  `json:"published"`
}

func (s *Service) CreateAnnouncement(ctx context.Context, actor models.Actor, in AnnouncementInput) (models.Announcement, error) {
	title := htmlsanitize.StripTags(in.Title)
	body := htmlsanitize.Sanitize(in.Body)
	if title == "" || body == "" {
		return models.Announcement{}, apperr.Validation(MsgAnnouncementRequired)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.Announcement{}, apperr.Validation(fmt.Sprintf("Announcement title must be at most %d characters.", maxTitleLen))
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return models.Announcement{}, apperr.Validation(fmt.Sprintf("Announcement body must be at most %d characters.", maxBodyLen))
	}
	published := in.Published == nil || *in.Published

	a, err := s.store.PrependAnnouncement(ctx, models.Announcement{Title: title, Body: body, Published: published})
	if err != nil {
		return models.Announcement{}, apperr.Internal("Failed to save announcement", err)
	}
	state := "draft"
	if published {
		state = "published"
	}
	if err := s.record(ctx, actor, activity.ActionCMSAnnouncementCreated, fmt.Sprintf("Announcement %q created (%s)", title, state)); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Service) SetAnnouncementPublished(ctx context.Context, actor models.Actor, id string, published bool) (models.Announcement, error) {
	oid, err := primitive.ObjectIDFromHex(normalize.Name(id))
	if err != nil {
		return models.Announcement{}, apperr.NotFound(MsgAnnouncementNotFound)
	}
	a, err := s.store.SetAnnouncementPublished(ctx, oid, published)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Announcement{}, apperr.NotFound(MsgAnnouncementNotFound)
	}
	if err != nil {
		return models.Announcement{}, apperr.Internal("Failed to save announcement", err)
	}
	state := "unpublished"
	if published {
		state = "published"
	}
	if err := s.record(ctx, actor, activity.ActionCMSAnnouncementToggled, fmt.Sprintf("Announcement %q set to %s", a.Title, state)); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Service) record(ctx context.Context, actor models.Actor, action, details string) error {
	if err := s.audit.Record(ctx, actor, action, details); err != nil {
		return apperr.Internal("Failed to record activity", err)
	}
	return nil
}
