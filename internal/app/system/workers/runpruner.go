// internal/app/system/workers/runpruner.go
package workers

import (
	"context"
	"sync"
	"time"

	matchrunstore "github.com/dalemusser/capstonehub/internal/app/store/matchruns"
	"go.uber.org/zap"
)

// RunPruner is a background worker that deletes old match run audit
// records. The run history endpoint only pages through recent runs, so
// records past the retention window are dead weight.
type RunPruner struct {
	runs      *matchrunstore.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewRunPruner creates a new run pruner worker.
//
// Parameters:
//   - runs: the match runs store
//   - logger: zap logger for logging
//   - interval: how often to prune (e.g., 1 hour)
//   - retention: how long run records are kept (e.g., 90 days)
func NewRunPruner(runs *matchrunstore.Store, logger *zap.Logger, interval, retention time.Duration) *RunPruner {
	return &RunPruner{
		runs:      runs,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background prune loop.
func (w *RunPruner) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("run pruner worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *RunPruner) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("run pruner worker stopped")
}

func (w *RunPruner) run() {
	defer w.wg.Done()

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

func (w *RunPruner) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.retention)
	count, err := w.runs.PruneOlderThan(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune old match runs", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("pruned old match runs", zap.Int64("count", count))
	}
}
