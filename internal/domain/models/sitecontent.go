// internal/domain/models/sitecontent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteContentKey identifies the one site_content document.
const SiteContentKey = "site-content"

// Defaults applied when the site content document is first created.
const DefaultEmergencyMessage = "Emergency? Call 911"

// DefaultHotlines returns a fresh copy of the default hotline list.
func DefaultHotlines() []string {
	return []string{"911", "(402) 375-2660"}
}

// MaxHotlines caps the number of hotline numbers kept after trimming.
const MaxHotlines = 10

// PublicAnnouncementLimit caps announcements on the public site-info feed.
const PublicAnnouncementLimit = 5

// SiteContent is the admin-editable public copy. Exactly one document exists,
// keyed by SingletonKey.
type SiteContent struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SingletonKey     string             `bson:"singleton_key" json:"singletonKey"`
	EmergencyMessage string             `bson:"emergency_message" json:"emergencyMessage"`
	HotlineNumbers   []string           `bson:"hotline_numbers" json:"hotlineNumbers"`
	Announcements    []Announcement     `bson:"announcements" json:"announcements"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Announcement is an item in the site content feed. Newest first.
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Published bool               `bson:"published" json:"published"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewSiteContent returns the default document.
func NewSiteContent(now time.Time) SiteContent {
	return SiteContent{
		SingletonKey:     SiteContentKey,
		EmergencyMessage: DefaultEmergencyMessage,
		HotlineNumbers:   DefaultHotlines(),
		Announcements:    []Announcement{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// PublicSiteInfo is the public projection of SiteContent.
type PublicSiteInfo struct {
	EmergencyMessage string         `json:"emergencyMessage"`
	HotlineNumbers   []string       `json:"hotlineNumbers"`
	Announcements    []Announcement `json:"announcements"`
}
