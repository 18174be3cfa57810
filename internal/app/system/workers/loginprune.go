// internal/app/system/workers/loginprune.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoginPruner deletes sign-in history older than a cutoff.
type LoginPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// LoginPrune is a background worker that trims the admin sign-in history.
type LoginPrune struct {
	logins    LoginPruner
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewLoginPrune creates a new sign-in history pruning worker.
//
// Parameters:
//   - logins: the sign-in history store
//   - logger: zap logger for logging
//   - interval: how often to prune (e.g., 1 hour)
//   - retention: how long records are kept (e.g., 90 days)
func NewLoginPrune(logins LoginPruner, logger *zap.Logger, interval, retention time.Duration) *LoginPrune {
	return &LoginPrune{
		logins:    logins,
		log:       logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start prunes once, then again every interval.
func (w *LoginPrune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("login history pruning worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LoginPrune) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("login history pruning worker stopped")
}

func (w *LoginPrune) run() {
	defer w.wg.Done()

	w.prune()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

func (w *LoginPrune) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.logins.DeleteOlderThan(ctx, w.now().UTC().Add(-w.retention))
	if err != nil {
		w.log.Error("failed to prune login history", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("pruned login history", zap.Int64("count", count))
	}
}
