package sync

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartAutoSync runs a reconcile pass on every tick until ctx is done.
// Overlapping ticks are harmless: the engine's single-flight guard drops
// a trigger that arrives while a pass is still running.
func StartAutoSync(ctx context.Context, e *Engine, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := e.Reconcile(ctx)
				if err != nil {
					log.Error("background sync failed", zap.Error(err))
					continue
				}
				if len(res.Conflicts) > 0 || len(res.Errors) > 0 {
					log.Warn("background sync finished with issues",
						zap.Int("conflicts", len(res.Conflicts)),
						zap.Int("errors", len(res.Errors)))
				}
			}
		}
	}()
}
