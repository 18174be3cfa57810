// internal/domain/models/bulletin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert severities and statuses.
const (
	SeverityExtreme  = "extreme"
	SeverityHigh     = "high"
	SeverityModerate = "moderate"
	SeverityInfo     = "info"

	AlertActive   = "active"
	AlertResolved = "resolved"
)

// Alert is a weather or hazard warning shown on the public dashboard.
type Alert struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Type       string             `bson:"type" json:"type" yaml:"type"`
	Severity   string             `bson:"severity" json:"severity" yaml:"severity" validate:"required,oneof=extreme high moderate info"`
	IssuedTime string             `bson:"issued_time" json:"issuedTime" yaml:"issuedTime"`
	ValidUntil string             `bson:"valid_until" json:"validUntil" yaml:"validUntil"`
	Status     string             `bson:"status" json:"status" yaml:"status" validate:"omitempty,oneof=active resolved"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" yaml:"-"`
}

// StatusTile is one of the at-a-glance tiles (power, roads, weather...).
type StatusTile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Label        string             `bson:"label" json:"label" yaml:"label"`
	Value        string             `bson:"value" json:"value" yaml:"value"`
	Status       string             `bson:"status" json:"status" yaml:"status" validate:"omitempty,oneof=good warning critical info"`
	Icon         string             `bson:"icon" json:"icon" yaml:"icon"`
	DisplayOrder int                `bson:"display_order" json:"displayOrder" yaml:"displayOrder"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" yaml:"-"`
}

// Update is a short news item for the public feed.
type Update struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Title          string             `bson:"title" json:"title" yaml:"title"`
	Category       string             `bson:"category" json:"category" yaml:"category"`
	TimestampLabel string             `bson:"timestamp_label" json:"timestampLabel" yaml:"timestampLabel"`
	Snippet        string             `bson:"snippet" json:"snippet" yaml:"snippet"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" yaml:"-"`
}

// Shelter is an emergency shelter location.
type Shelter struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Name      string             `bson:"name" json:"name" yaml:"name"`
	Address   string             `bson:"address" json:"address" yaml:"address"`
	Capacity  int                `bson:"capacity" json:"capacity" yaml:"capacity" validate:"gte=0"`
	Occupancy int                `bson:"occupancy" json:"occupancy" yaml:"occupancy" validate:"gte=0"`
	IsOpen    bool               `bson:"is_open" json:"isOpen" yaml:"isOpen"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" yaml:"-"`
}

// Dashboard is the aggregate served on the public landing page.
type Dashboard struct {
	ActiveAlert *Alert       `json:"activeAlert"`
	StatusTiles []StatusTile `json:"statusTiles"`
	Updates     []Update     `json:"updates"`
	Shelters    []Shelter    `json:"shelters"`
	Resources   []Resource   `json:"resources"`
}

// Dashboard list sizes.
const (
	DashboardUpdateLimit   = 8
	DashboardResourceLimit = 8
)
