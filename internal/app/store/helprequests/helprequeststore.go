// internal/app/store/helprequests/helprequeststore.go
package helprequeststore

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the help_requests collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new help request store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("help_requests")}
}

// Create inserts a help request. Callers validate and default fields first.
func (s *Store) Create(ctx context.Context, hr models.HelpRequest) (models.HelpRequest, error) {
	now := time.Now().UTC()
	hr.ID = primitive.NewObjectID()
	hr.CreatedAt = now
	hr.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, hr); err != nil {
		return models.HelpRequest{}, err
	}
	return hr, nil
}

// GetByID loads a help request. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.HelpRequest, error) {
	var hr models.HelpRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&hr)
	return hr, err
}

func filterDoc(f models.HelpRequestFilter) bson.M {
	q := bson.M{}
	switch {
	case f.Status != "":
		q["status"] = f.Status
	case len(f.Statuses) > 0:
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if f.Urgency != "" {
		q["urgency"] = f.Urgency
	}
	return q
}

// List returns matching help requests, newest first.
func (s *Store) List(ctx context.Context, f models.HelpRequestFilter) ([]models.HelpRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.HelpRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies upd and returns the updated document.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd models.HelpRequestUpdate) (models.HelpRequest, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.SetVolunteer {
		set["assigned_volunteer"] = upd.Volunteer
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var hr models.HelpRequest
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&hr)
	return hr, err
}

// DetachVolunteer clears volunteerID from every open request (new or
// in-progress) and resets those requests to new. Resolved requests keep
// their history. Returns the number of requests changed.
func (s *Store) DetachVolunteer(ctx context.Context, volunteerID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"assigned_volunteer": volunteerID,
		"status":             bson.M{"$in": []string{models.RequestStatusNew, models.RequestStatusInProgress}},
	}
	update := bson.M{"$set": bson.M{
		"assigned_volunteer": nil,
		"status":             models.RequestStatusNew,
		"updated_at":         time.Now().UTC(),
	}}
	res, err := s.c.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Count returns the number of matching help requests.
func (s *Store) Count(ctx context.Context, f models.HelpRequestFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filterDoc(f))
}

// CountBy groups all help requests by field (a bson field name such as
// "urgency" or "request_type") and returns the count per value.
func (s *Store) CountBy(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    *string `bson:"_id"`
		Count int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		if r.ID == nil || *r.ID == "" {
			continue
		}
		out[*r.ID] = r.Count
	}
	return out, nil
}
