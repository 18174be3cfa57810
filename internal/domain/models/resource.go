package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is a preparedness guide listed on the public site.
type Resource struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Title       string             `bson:"title" json:"title" yaml:"title"`
	Description string             `bson:"description" json:"description" yaml:"description"`
	Type        string             `bson:"type" json:"type" yaml:"type"` // e.g. "preparedness"

	CreatedAt time.Time `bson:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" yaml:"-"`
}
