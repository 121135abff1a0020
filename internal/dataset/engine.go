package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Engine orchestrates dataset sync runs against the store's sync log.
type Engine struct {
	deps Deps
	reg  *Registry
}

// RunOpts configures which datasets to sync and how.
type RunOpts struct {
	Group    *Group   // restrict to a specific group
	Datasets []string // restrict to specific dataset names
	Force    bool     // ignore ShouldRun() scheduling
}

// RunStats summarizes one engine run.
type RunStats struct {
	Synced  int
	Skipped int
	Failed  int
}

// NewEngine creates a new sync engine.
func NewEngine(deps Deps, reg *Registry) *Engine {
	return &Engine{deps: deps, reg: reg}
}

// Run iterates over the selected datasets, checks if each needs
// syncing, and runs the sync. Results are recorded in the sync log.
// A failed dataset does not stop the remaining ones.
func (e *Engine) Run(ctx context.Context, opts RunOpts) (*RunStats, error) {
	log := zap.L().With(zap.String("component", "dataset.engine"))
	now := time.Now().UTC()

	datasets, err := e.reg.Select(opts.Group, opts.Datasets)
	if err != nil {
		return nil, err
	}

	if len(datasets) == 0 {
		log.Info("no datasets selected")
		return &RunStats{}, nil
	}

	log.Info("selected datasets", zap.Int("count", len(datasets)))

	var stats RunStats

	for _, ds := range datasets {
		select {
		case <-ctx.Done():
			return &stats, ctx.Err()
		default:
		}

		dsLog := log.With(zap.String("dataset", ds.Name()), zap.String("group", ds.Group().String()))

		if !opts.Force {
			lastSync, err := e.deps.Store.LastSuccess(ctx, ds.Name())
			if err != nil {
				return &stats, eris.Wrapf(err, "engine: check last sync for %s", ds.Name())
			}

			if !ds.ShouldRun(now, lastSync) {
				dsLog.Debug("skipping (not due)")
				stats.Skipped++
				continue
			}
		}

		dsLog.Info("starting sync")
		run, err := e.deps.Store.StartSync(ctx, ds.Name())
		if err != nil {
			return &stats, eris.Wrapf(err, "engine: start sync log for %s", ds.Name())
		}

		start := time.Now()
		result, err := ds.Sync(ctx, e.deps)
		elapsed := time.Since(start)

		if err != nil {
			dsLog.Error("sync failed", zap.Error(err), zap.Duration("elapsed", elapsed))
			if logErr := e.deps.Store.FailSync(ctx, run.ID, err); logErr != nil {
				dsLog.Error("failed to record sync failure", zap.Error(logErr))
			}
			stats.Failed++
			continue
		}

		if err := e.deps.Store.CompleteSync(ctx, run.ID, result.RowsSynced, result.Metadata); err != nil {
			dsLog.Error("failed to record sync completion", zap.Error(err))
		}

		dsLog.Info("sync complete",
			zap.Int64("rows", result.RowsSynced),
			zap.Duration("elapsed", elapsed),
		)
		stats.Synced++
	}

	log.Info("engine run complete",
		zap.Int("synced", stats.Synced),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return &stats, nil
}
