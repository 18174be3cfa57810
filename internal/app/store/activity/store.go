// internal/app/store/activity/store.go
package activity

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Action tags recorded in the activity log.
const (
	ActionLogin  = "admin.login"
	ActionLogout = "admin.logout"

	ActionHelpRequestStatus     = "help-request.status.updated"
	ActionVolunteerAssigned     = "help-request.volunteer.assigned"
	ActionVolunteerUnassigned   = "help-request.volunteer.unassigned"
	ActionVolunteerCreated      = "volunteer.created"
	ActionVolunteerApproval     = "volunteer.approval.updated"
	ActionVolunteerAvailability = "volunteer.availability.updated"
	ActionVolunteerRemoved      = "volunteer.removed"

	ActionInventoryCreated = "inventory.created"
	ActionInventoryUpdated = "inventory.updated"
	ActionInventoryDeleted = "inventory.deleted"

	ActionCMSEmergency           = "cms.emergency.updated"
	ActionCMSHotlines            = "cms.hotlines.updated"
	ActionCMSAnnouncementCreated = "cms.announcement.created"
	ActionCMSAnnouncementToggled = "cms.announcement.publish-toggled"

	ActionAdminUserCreated = "admin-user.created"
	ActionAdminUserRole    = "admin-user.role.updated"
	ActionAdminUserRemoved = "admin-user.removed"
)

// MaxDetails caps the stored details text.
const MaxDetails = 600

// Store manages the append-only activity log.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_logs")}
}

// Append records a new entry. ID and CreatedAt are filled when zero and
// details are truncated to MaxDetails runes.
func (s *Store) Append(ctx context.Context, entry models.ActivityLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.Details = Truncate(entry.Details)
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// Recent returns the newest entries first, at most limit of them.
func (s *Store) Recent(ctx context.Context, limit int64) ([]models.ActivityLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := []models.ActivityLog{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Truncate shortens details to MaxDetails runes.
func Truncate(details string) string {
	r := []rune(details)
	if len(r) <= MaxDetails {
		return details
	}
	return string(r[:MaxDetails])
}
