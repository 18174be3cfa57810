// internal/app/store/volunteers/volunteerstore.go
package volunteerstore

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the volunteers collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new volunteer store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("volunteers")}
}

// Create inserts a volunteer. Callers validate and default fields first.
func (s *Store) Create(ctx context.Context, v models.Volunteer) (models.Volunteer, error) {
	now := time.Now().UTC()
	v.ID = primitive.NewObjectID()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Skills == nil {
		v.Skills = []string{}
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Volunteer{}, err
	}
	return v, nil
}

// GetByID loads a volunteer regardless of state. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Volunteer, error) {
	var v models.Volunteer
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	return v, err
}

// GetActive loads an active volunteer. Returns mongo.ErrNoDocuments otherwise.
func (s *Store) GetActive(ctx context.Context, id primitive.ObjectID) (models.Volunteer, error) {
	var v models.Volunteer
	err := s.c.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&v)
	return v, err
}

// GetAssignable loads an active, approved volunteer. Returns
// mongo.ErrNoDocuments otherwise.
func (s *Store) GetAssignable(ctx context.Context, id primitive.ObjectID) (models.Volunteer, error) {
	var v models.Volunteer
	err := s.c.FindOne(ctx, bson.M{
		"_id":             id,
		"is_active":       true,
		"approval_status": models.ApprovalApproved,
	}).Decode(&v)
	return v, err
}

func filterDoc(f models.VolunteerFilter) bson.M {
	q := bson.M{}
	if f.ActiveOnly {
		q["is_active"] = true
	}
	if f.ApprovalStatus != "" {
		q["approval_status"] = f.ApprovalStatus
	}
	if f.AvailabilityStatus != "" {
		q["availability_status"] = f.AvailabilityStatus
	}
	return q
}

// List returns matching volunteers, newest first.
func (s *Store) List(ctx context.Context, f models.VolunteerFilter) ([]models.Volunteer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Volunteer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByIDs loads the volunteers with the given ids, in no particular order.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Volunteer, error) {
	out := []models.Volunteer{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies upd and returns the updated document.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd models.VolunteerUpdate) (models.Volunteer, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.ApprovalStatus != nil {
		set["approval_status"] = *upd.ApprovalStatus
	}
	if upd.AvailabilityStatus != nil {
		set["availability_status"] = *upd.AvailabilityStatus
	}
	if upd.AssignedTask != nil {
		set["assigned_task"] = *upd.AssignedTask
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v models.Volunteer
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&v)
	return v, err
}

// Count returns the number of matching volunteers.
func (s *Store) Count(ctx context.Context, f models.VolunteerFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filterDoc(f))
}
