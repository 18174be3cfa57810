// internal/app/bootstrap/background.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/reliefhub/internal/app/system/workers"
)

// background owns the goroutines started during Startup and BuildHandler
// so Shutdown can stop them.
var background struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	prune  *workers.LoginPrune
}

// backgroundContext is cancelled by stopBackground.
func backgroundContext() context.Context {
	background.mu.Lock()
	defer background.mu.Unlock()
	if background.ctx == nil {
		background.ctx, background.cancel = context.WithCancel(context.Background())
	}
	return background.ctx
}

func startLoginPrune(w *workers.LoginPrune) {
	background.mu.Lock()
	defer background.mu.Unlock()
	background.prune = w
	w.Start()
}

func stopBackground() {
	background.mu.Lock()
	defer background.mu.Unlock()
	if background.cancel != nil {
		background.cancel()
		background.ctx, background.cancel = nil, nil
	}
	if background.prune != nil {
		background.prune.Stop()
		background.prune = nil
	}
}
