// internal/app/store/sitecontent/sitecontentstore.go
package sitecontentstore

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the site_content collection.
// Exactly one document exists, keyed by models.SiteContentKey; it is
// created with defaults on first access.
type Store struct {
	c *mongo.Collection
}

// New creates a new site content store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_content")}
}

func keyFilter() bson.M {
	return bson.M{"singleton_key": models.SiteContentKey}
}

// Get returns the singleton, creating it with defaults if missing.
// The upsert is keyed on the singleton key (unique index), so concurrent
// first calls converge on one document.
func (s *Store) Get(ctx context.Context) (models.SiteContent, error) {
	now := time.Now().UTC()
	def := models.NewSiteContent(now)
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":               primitive.NewObjectID(),
			"singleton_key":     def.SingletonKey,
			"emergency_message": def.EmergencyMessage,
			"hotline_numbers":   def.HotlineNumbers,
			"announcements":     def.Announcements,
			"created_at":        now,
			"updated_at":        now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc models.SiteContent
	err := s.c.FindOneAndUpdate(ctx, keyFilter(), update, opts).Decode(&doc)
	if err != nil && wafflemongo.IsDup(err) {
		// Lost the insert race; the winner's document is there now.
		err = s.c.FindOne(ctx, keyFilter()).Decode(&doc)
	}
	if err != nil {
		return models.SiteContent{}, err
	}
	if doc.Announcements == nil {
		doc.Announcements = []models.Announcement{}
	}
	return doc, nil
}

func (s *Store) set(ctx context.Context, fields bson.M) (models.SiteContent, error) {
	if _, err := s.Get(ctx); err != nil {
		return models.SiteContent{}, err
	}
	fields["updated_at"] = time.Now().UTC()
	if _, err := s.c.UpdateOne(ctx, keyFilter(), bson.M{"$set": fields}); err != nil {
		return models.SiteContent{}, err
	}
	return s.Get(ctx)
}

// SetEmergencyMessage replaces the banner text.
func (s *Store) SetEmergencyMessage(ctx context.Context, msg string) (models.SiteContent, error) {
	return s.set(ctx, bson.M{"emergency_message": msg})
}

// SetHotlines replaces the hotline list.
func (s *Store) SetHotlines(ctx context.Context, hotlines []string) (models.SiteContent, error) {
	return s.set(ctx, bson.M{"hotline_numbers": hotlines})
}

// PrependAnnouncement inserts a at the head of the feed.
func (s *Store) PrependAnnouncement(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	if _, err := s.Get(ctx); err != nil {
		return models.Announcement{}, err
	}
	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	update := bson.M{
		"$push": bson.M{"announcements": bson.M{"$each": []models.Announcement{a}, "$position": 0}},
		"$set":  bson.M{"updated_at": now},
	}
	if _, err := s.c.UpdateOne(ctx, keyFilter(), update); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// SetAnnouncementPublished flips one announcement's published flag.
// Returns mongo.ErrNoDocuments if no announcement has that id.
func (s *Store) SetAnnouncementPublished(ctx context.Context, id primitive.ObjectID, published bool) (models.Announcement, error) {
	if _, err := s.Get(ctx); err != nil {
		return models.Announcement{}, err
	}
	now := time.Now().UTC()
	filter := bson.M{"singleton_key": models.SiteContentKey, "announcements._id": id}
	update := bson.M{"$set": bson.M{
		"announcements.$.published":  published,
		"announcements.$.updated_at": now,
		"updated_at":                 now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.SiteContent
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return models.Announcement{}, err
	}
	for _, a := range doc.Announcements {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Announcement{}, mongo.ErrNoDocuments
}
