// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall back to create-and-handle-race below.
		existing = nil
	}

	var problems []string
	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll, existing, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
			return
		}
		logger.Debug("validator ensured", zap.String("collection", coll))
	}

	ensure("help_requests", helpRequestsSchema())
	ensure("volunteers", volunteersSchema())
	ensure("inventory", inventorySchema())
	ensure("admin_users", adminUsersSchema())
	ensure("activity_logs", activityLogsSchema())
	ensure("donations", donationsSchema())

	// No validator; the singleton and login history are written by one store each.
	ensure("site_content", nil)
	ensure("admin_logins", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

// ensureCollection idempotently makes sure name exists.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, existing []string, logger *zap.Logger) error {
	if slices.Contains(existing, name) {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists is fine (race or a failed listing).
		if isNamespaceExistsErr(err) {
			return nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	logger.Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

/* ------------------------- error helpers ------------------------- */

func commandErr(err error, code int32, fragments ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErr(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErr(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	str      = bson.M{"bsonType": "string"}
	date     = bson.M{"bsonType": "date"}
	flag     = bson.M{"bsonType": "bool"}
	count    = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0}
	optRef   = bson.M{"bsonType": bson.A{"objectId", "null"}}
)

func enum(values []string) bson.M {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return bson.M{"enum": a}
}

func objectSchema(required []string, props bson.M) bson.M {
	req := make(bson.A, len(required))
	for i, r := range required {
		req[i] = r
	}
	return bson.M{"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   req,
		"properties": props,
	}}
}

func helpRequestsSchema() bson.M {
	return objectSchema(
		[]string{"name", "location", "contact", "request_type", "urgency", "status"},
		bson.M{
			"name":               nonBlank,
			"location":           nonBlank,
			"contact":            nonBlank,
			"request_type":       enum(models.RequestTypes),
			"urgency":            enum(models.Urgencies),
			"description":        str,
			"status":             enum(models.RequestStatuses),
			"assigned_volunteer": optRef,
			"created_at":         date,
			"updated_at":         date,
		},
	)
}

func volunteersSchema() bson.M {
	return objectSchema(
		[]string{"name", "email", "approval_status", "availability_status", "is_active"},
		bson.M{
			"name":                nonBlank,
			"email":               nonBlank,
			"phone":               str,
			"skills":              bson.M{"bsonType": bson.A{"array", "null"}, "items": str},
			"availability":        str,
			"availability_status": enum(models.AvailabilityStatuses),
			"approval_status":     enum(models.ApprovalStatuses),
			"assigned_task":       str,
			"location":            str,
			"is_active":           flag,
			"created_at":          date,
			"updated_at":          date,
		},
	)
}

func inventorySchema() bson.M {
	return objectSchema(
		[]string{"name", "quantity", "low_stock_threshold"},
		bson.M{
			"name":                nonBlank,
			"category":            str,
			"quantity":            count,
			"location":            str,
			"low_stock_threshold": count,
			"created_at":          date,
			"updated_at":          date,
		},
	)
}

func adminUsersSchema() bson.M {
	return objectSchema(
		[]string{"email", "password_hash", "role", "is_active"},
		bson.M{
			"email":         nonBlank,
			"password_hash": nonBlank,
			"role":          enum([]string{models.RoleAdmin, models.RoleSuperAdmin}),
			"is_active":     flag,
			"created_at":    date,
			"updated_at":    date,
		},
	)
}

func activityLogsSchema() bson.M {
	return objectSchema(
		[]string{"actor_email", "action", "created_at"},
		bson.M{
			"actor_id":    optRef,
			"actor_email": nonBlank,
			"action":      nonBlank,
			"details":     str,
			"created_at":  date,
		},
	)
}

func donationsSchema() bson.M {
	return objectSchema(
		[]string{"reference", "amount"},
		bson.M{
			"reference":  nonBlank,
			"name":       str,
			"email":      str,
			"amount":     bson.M{"bsonType": "number", "minimum": 0},
			"message":    str,
			"created_at": date,
		},
	)
}
