package auditlog_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/features/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/store/memstore"
	audit "github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, entries int) chi.Router {
	t.Helper()
	db := memstore.New()
	mgr, err := auth.NewManager("auditlog-test-secret-0123456789abc", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	rec := audit.New(db.Activity, zap.NewNop(), audit.Config{})
	svc := adminusers.New(db.AdminUsers, mgr, rec, db.Activity, zap.NewNop())

	for i := range entries {
		if err := rec.Record(context.Background(), models.Actor{}, "inventory.updated", fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	r := chi.NewRouter()
	r.Mount("/api/admin/activity-logs", auditlog.Routes(auditlog.NewHandler(svc, zap.NewNop())))
	return r
}

func list(t *testing.T, r http.Handler, target string) []models.ActivityLog {
	t.Helper()
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, target), testutil.SuperAdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var logs []models.ActivityLog
	testutil.DecodeEnvelope(t, rec.ResponseRecorder, &logs)
	return logs
}

func TestServeList_Limits(t *testing.T) {
	r := newTestRouter(t, 120)

	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"?limit=5", 5},
		{"?limit=0", 1},
		{"?limit=-3", 1},
		{"?limit=500", 100},
		{"?limit=abc", 20},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := list(t, r, "/api/admin/activity-logs"+tt.query); len(got) != tt.want {
				t.Errorf("got %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestServeList_NewestFirst(t *testing.T) {
	r := newTestRouter(t, 3)

	got := list(t, r, "/api/admin/activity-logs")
	if len(got) != 3 {
		t.Fatalf("got %d entries", len(got))
	}
	if got[0].Details != "entry 2" || got[2].Details != "entry 0" {
		t.Errorf("order: got %q, %q, %q", got[0].Details, got[1].Details, got[2].Details)
	}
	if got[0].ActorEmail != "system" {
		t.Errorf("system actor: got %q", got[0].ActorEmail)
	}
}

func TestServeList_Empty(t *testing.T) {
	r := newTestRouter(t, 0)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/admin/activity-logs"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"data":[]`)
}
