// internal/domain/models/activitylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemActor is recorded as ActorEmail when no admin performed the action.
const SystemActor = "system"

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ActorID    *primitive.ObjectID `bson:"actor_id" json:"actorId"`
	ActorEmail string              `bson:"actor_email" json:"actorEmail"`
	Action     string              `bson:"action" json:"action"`
	Details    string              `bson:"details" json:"details"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
