// internal/domain/models/volunteer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Availability statuses.
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
)

// Approval statuses.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

var (
	AvailabilityStatuses = []string{AvailabilityAvailable, AvailabilityBusy}
	ApprovalStatuses     = []string{ApprovalPending, ApprovalApproved, ApprovalRejected}
)

// Volunteer is a person who signed up to help.
// AssignedTask is non-empty only while AvailabilityStatus is busy.
type Volunteer struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"` // lowercase
	Phone              string             `bson:"phone" json:"phone"`
	Skills             []string           `bson:"skills" json:"skills"`
	Availability       string             `bson:"availability" json:"availability"` // free text, e.g. "weekends"
	AvailabilityStatus string             `bson:"availability_status" json:"availabilityStatus"`
	ApprovalStatus     string             `bson:"approval_status" json:"approvalStatus"`
	AssignedTask       string             `bson:"assigned_task" json:"assignedTask"`
	Location           string             `bson:"location" json:"location"`
	IsActive           bool               `bson:"is_active" json:"isActive"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Assignable reports whether the volunteer may take a help request.
func (v Volunteer) Assignable() bool {
	return v.IsActive && v.ApprovalStatus == ApprovalApproved
}

// VolunteerFilter narrows volunteer queries. Empty fields match everything.
type VolunteerFilter struct {
	ActiveOnly         bool
	ApprovalStatus     string
	AvailabilityStatus string
}

// VolunteerUpdate carries the fields to change on a volunteer. Nil means unchanged.
type VolunteerUpdate struct {
	ApprovalStatus     *string
	AvailabilityStatus *string
	AssignedTask       *string
	IsActive           *bool
}

// VolunteerContact is the subset of a volunteer embedded in help request views.
type VolunteerContact struct {
	ID                 primitive.ObjectID `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	AvailabilityStatus string             `json:"availabilityStatus,omitempty"`
	ApprovalStatus     string             `json:"approvalStatus,omitempty"`
}
