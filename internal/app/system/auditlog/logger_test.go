package auditlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memWriter struct {
	entries []models.ActivityLog
	err     error
}

func (w *memWriter) Append(_ context.Context, e models.ActivityLog) error {
	if w.err != nil {
		return w.err
	}
	w.entries = append(w.entries, e)
	return nil
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	if err := logger.Record(context.Background(), models.Actor{}, "inventory.created", "x"); err != nil {
		t.Errorf("nil logger returned %v", err)
	}
}

func TestLogger_Record_SystemActor(t *testing.T) {
	w := &memWriter{}
	logger := auditlog.New(w, zap.NewNop(), auditlog.Config{Auth: "all", Admin: "all"})

	if err := logger.Record(context.Background(), models.Actor{}, "inventory.created", "Inventory item Water created with qty 5"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if len(w.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(w.entries))
	}
	if w.entries[0].ActorEmail != models.SystemActor || w.entries[0].ActorID != nil {
		t.Errorf("expected system actor, got %+v", w.entries[0])
	}
}

func TestLogger_Record_Modes(t *testing.T) {
	id := primitive.NewObjectID()
	actor := models.Actor{ID: &id, Email: "ops@example.com"}

	tests := []struct {
		name    string
		cfg     auditlog.Config
		action  string
		wantDB  int
		wantLog int
	}{
		{"admin all", auditlog.Config{Admin: "all"}, "inventory.updated", 1, 1},
		{"admin db", auditlog.Config{Admin: "db"}, "inventory.updated", 1, 0},
		{"admin log", auditlog.Config{Admin: "log"}, "inventory.updated", 0, 1},
		{"admin off", auditlog.Config{Admin: "off"}, "inventory.updated", 0, 0},
		{"auth off leaves admin on", auditlog.Config{Auth: "off", Admin: "all"}, "inventory.updated", 1, 1},
		{"auth off", auditlog.Config{Auth: "off", Admin: "all"}, "admin.login", 0, 0},
		{"unknown mode logs everything", auditlog.Config{Admin: "verbose"}, "inventory.updated", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			w := &memWriter{}
			logger := auditlog.New(w, zap.New(core), tt.cfg)

			if err := logger.Record(context.Background(), actor, tt.action, "details"); err != nil {
				t.Fatalf("Record failed: %v", err)
			}
			if len(w.entries) != tt.wantDB {
				t.Errorf("db entries = %d, want %d", len(w.entries), tt.wantDB)
			}
			if logs.Len() != tt.wantLog {
				t.Errorf("log entries = %d, want %d", logs.Len(), tt.wantLog)
			}
		})
	}
}

func TestLogger_Record_ReturnsStoreError(t *testing.T) {
	w := &memWriter{err: errors.New("write failed")}
	logger := auditlog.New(w, zap.NewNop(), auditlog.Config{Admin: "all"})

	if err := logger.Record(context.Background(), models.Actor{}, "inventory.deleted", "x"); err == nil {
		t.Error("expected store error to be returned")
	}
}
