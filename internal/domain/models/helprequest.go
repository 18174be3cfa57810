// internal/domain/models/helprequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Help request types.
const (
	RequestTypeFood           = "food"
	RequestTypeTransportation = "transportation"
	RequestTypeMedical        = "medical"
	RequestTypeShelter        = "shelter"
	RequestTypeOther          = "other"
)

// Urgency levels.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Help request statuses.
const (
	RequestStatusNew        = "new"
	RequestStatusInProgress = "in-progress"
	RequestStatusResolved   = "resolved"
)

// RequestTypes, Urgencies and RequestStatuses list the allowed values in display order.
var (
	RequestTypes    = []string{RequestTypeFood, RequestTypeTransportation, RequestTypeMedical, RequestTypeShelter, RequestTypeOther}
	Urgencies       = []string{UrgencyHigh, UrgencyMedium, UrgencyLow}
	RequestStatuses = []string{RequestStatusNew, RequestStatusInProgress, RequestStatusResolved}
)

// HelpRequest is a resident's request for assistance.
//
// AssignedVolunteer is a weak reference: the volunteer may be deactivated
// later, at which point the reference is cleared by the volunteer removal flow.
type HelpRequest struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name              string              `bson:"name" json:"name"`
	Location          string              `bson:"location" json:"location"`
	Contact           string              `bson:"contact" json:"contact"`
	RequestType       string              `bson:"request_type" json:"requestType"`
	Urgency           string              `bson:"urgency" json:"urgency"`
	Description       string              `bson:"description" json:"description"`
	Status            string              `bson:"status" json:"status"`
	AssignedVolunteer *primitive.ObjectID `bson:"assigned_volunteer" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HelpRequestFilter narrows help request queries. Empty fields match everything.
type HelpRequestFilter struct {
	Status   string
	Statuses []string
	Urgency  string
}

// HelpRequestUpdate carries the fields to change on a help request.
// SetVolunteer distinguishes "clear the volunteer" (Volunteer == nil) from
// "leave it alone".
type HelpRequestUpdate struct {
	Status       *string
	SetVolunteer bool
	Volunteer    *primitive.ObjectID
}
