// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"strings"

	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.uber.org/zap"
)

// Logging modes for Config fields.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in and sign-out entries (admin.*).
	Auth string
	// Admin controls every other admin action.
	Admin string
}

// Writer persists activity entries.
type Writer interface {
	Append(ctx context.Context, entry models.ActivityLog) error
}

// Logger records admin actions to the activity log and mirrors them to zap.
type Logger struct {
	store  Writer
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Writer, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) mode(action string) string {
	setting := l.config.Admin
	if strings.HasPrefix(action, "admin.") {
		setting = l.config.Auth
	}
	switch setting {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return setting
	default:
		return ModeAll
	}
}

func (l *Logger) logToZap(entry models.ActivityLog) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", entry.Action),
		zap.String("actor_email", entry.ActorEmail),
		zap.String("details", entry.Details),
	}
	if entry.ActorID != nil {
		fields = append(fields, zap.String("actor_id", entry.ActorID.Hex()))
	}
	l.zapLog.Info("audit event", fields...)
}

// Record appends an activity entry for actor. A zero actor is recorded as
// "system". The storage error, if any, is returned to the caller.
// If the logger is nil, this is a no-op.
func (l *Logger) Record(ctx context.Context, actor models.Actor, action, details string) error {
	if l == nil {
		return nil
	}

	entry := models.ActivityLog{
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		Details:    details,
	}
	if entry.ActorEmail == "" {
		entry.ActorEmail = models.SystemActor
	}

	mode := l.mode(action)
	if mode == ModeOff {
		return nil
	}
	if mode == ModeAll || mode == ModeLog {
		l.logToZap(entry)
	}
	if mode == ModeAll || mode == ModeDB {
		if err := l.store.Append(ctx, entry); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("action", action),
			)
			return err
		}
	}
	return nil
}
