// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup (EnsureSchema hook) and by the seed CLI.
Each ensure* function is idempotent. Errors are aggregated so every
problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"help_requests", ensureHelpRequests},
		{"volunteers", ensureVolunteers},
		{"inventory", ensureInventory},
		{"site_content", ensureSiteContent},
		{"admin_users", ensureAdminUsers},
		{"activity_logs", ensureActivityLogs},
		{"admin_logins", ensureAdminLogins},
		{"donations", ensureDonations},
		{"public", ensurePublicInfo},
	}

	var problems []string
	for _, s := range steps {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// dupFinders tells operators how to locate rows blocking a unique index.
var dupFinders = map[string]string{
	"admin_users":  `db.admin_users.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
	"site_content": `db.site_content.aggregate([{ $group: { _id: "$singleton_key", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
}

type desiredIndex struct {
	model  mongo.IndexModel
	name   string
	unique *bool
	sig    string
}

func describe(m mongo.IndexModel) desiredIndex {
	d := desiredIndex{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = m.Options.Unique
	}
	return d
}

func (d desiredIndex) isUnique() bool { return d.unique != nil && *d.unique }

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// recreate drops an existing index and creates the desired one in its place.
func recreate(ctx context.Context, coll *mongo.Collection, ex existingIndex, d desiredIndex) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("%s(%s): drop failed: %w", coll.Name(), d.name, err)
	}
	return create(ctx, coll, d)
}

func create(ctx context.Context, coll *mongo.Collection, d desiredIndex) error {
	_, err := coll.Indexes().CreateOne(ctx, d.model)
	if err == nil {
		return nil
	}
	if isDuplicateKeyErr(err) && d.isUnique() {
		hint := ""
		if finder, ok := dupFinders[coll.Name()]; ok {
			hint = ". Example finder:\n" + finder
		}
		return fmt.Errorf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), d.name, hint)
	}
	return fmt.Errorf("%s(%s): %w", coll.Name(), d.name, err)
}

func ensureOne(ctx context.Context, coll *mongo.Collection, d desiredIndex) (string, error) {
	ex, ok := listExisting(ctx, coll)[d.sig]
	if ok {
		switch {
		case !sameBoolPtr(d.unique, ex.Unique):
			return "recreated", recreate(ctx, coll, ex, d)
		case d.name != "" && ex.Name != d.name:
			return "renamed", recreate(ctx, coll, ex, d)
		default:
			return "reused", nil
		}
	}

	err := create(ctx, coll, d)
	if err == nil || !isOptionsConflictErr(err) {
		return "created", err
	}
	// Lost a race or the list above was stale: re-read and reconcile once.
	ex, ok = listExisting(ctx, coll)[d.sig]
	if !ok {
		return "failed", err
	}
	if sameBoolPtr(d.unique, ex.Unique) {
		return "reused", nil
	}
	return "recreated", recreate(ctx, coll, ex, d)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		d := describe(m)
		start := time.Now()
		outcome, err := ensureOne(ctx, coll, d)

		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.isUnique()),
			zap.String("outcome", outcome),
			zap.String("took", time.Since(start).String()),
		}
		if err != nil {
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			errs = append(errs, err.Error())
			continue
		}
		zap.L().Info("index ensured", fields...)
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureHelpRequests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("help_requests"), []mongo.IndexModel{
		// Admin list: optional status/urgency filters, newest first.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "urgency", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_help_requests_status_urgency_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_help_requests_created_id"),
		},
		// Volunteer removal detaches open requests by volunteer.
		{
			Keys:    bson.D{{Key: "assigned_volunteer", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_help_requests_volunteer_status"),
		},
	})
}

func ensureVolunteers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("volunteers"), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "approval_status", Value: 1},
				{Key: "availability_status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_volunteers_active_approval_availability_created"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_volunteers_email"),
		},
	})
}

func ensureInventory(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("inventory"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_inventory_updated_id"),
		},
	})
}

func ensureSiteContent(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("site_content"), []mongo.IndexModel{
		// One document per key; concurrent first access converges on it.
		{
			Keys:    bson.D{{Key: "singleton_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_site_content_key"),
		},
	})
}

func ensureAdminUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("admin_users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_admin_users_email"),
		},
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_admin_users_active_role"),
		},
	})
}

func ensureActivityLogs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("activity_logs"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_activity_logs_created_id"),
		},
	})
}

func ensureAdminLogins(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("admin_logins"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "admin_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_admin_logins_admin_created"),
		},
	})
}

func ensureDonations(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("donations"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_donations_created_id"),
		},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_donations_reference"),
		},
	})
}

// ensurePublicInfo covers the read-mostly dashboard collections.
func ensurePublicInfo(ctx context.Context, db *mongo.Database) error {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	add(ensureIndexSet(ctx, db.Collection("alerts"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_alerts_status_updated"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_alerts_created"),
		},
	}))
	add(ensureIndexSet(ctx, db.Collection("status_tiles"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_status_tiles_order_created"),
		},
	}))
	add(ensureIndexSet(ctx, db.Collection("updates"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_updates_created"),
		},
	}))
	add(ensureIndexSet(ctx, db.Collection("shelters"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_open", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_shelters_open_created"),
		},
	}))
	add(ensureIndexSet(ctx, db.Collection("resources"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_resources_created"),
		},
	}))

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
