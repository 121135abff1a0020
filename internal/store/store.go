// Package store persists observations, extracted statistics,
// demographic rows, the activity lexicon, and the sync log. Two
// drivers are provided: sqlite for local use and postgres for shared
// deployments.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/config"
	"github.com/atusdev/timeuse-cli/internal/model"
)

// StatisticFilter selects statistics from the store.
type StatisticFilter struct {
	Names       []string     `json:"names,omitempty"`
	Demographic string       `json:"demographic,omitempty"`
	Year        int          `json:"year,omitempty"`
	Source      model.Source `json:"source,omitempty"`
}

// DemographicFilter selects demographic rows from the store.
type DemographicFilter struct {
	Demographic string        `json:"demographic,omitempty"`
	DayType     model.DayType `json:"day_type,omitempty"`
	Year        int           `json:"year,omitempty"`
}

// Store defines the persistence interface shared by all commands.
type Store interface {
	// Observations
	UpsertObservations(ctx context.Context, obs []model.Observation) (int64, error)
	ListObservations(ctx context.Context, filter model.ObservationFilter) ([]model.Observation, error)

	// Statistics
	UpsertStatistics(ctx context.Context, stats []model.Statistic) (int64, error)
	ListStatistics(ctx context.Context, filter StatisticFilter) ([]model.Statistic, error)

	// Demographics
	UpsertDemographics(ctx context.Context, rows []model.DemographicRow) (int64, error)
	ListDemographics(ctx context.Context, filter DemographicFilter) ([]model.DemographicRow, error)

	// Lexicon
	UpsertLexicon(ctx context.Context, codes []atus.ActivityCode) (int64, error)
	ListLexicon(ctx context.Context) ([]atus.ActivityCode, error)

	// Sync log
	StartSync(ctx context.Context, dataset string) (*model.SyncRun, error)
	CompleteSync(ctx context.Context, runID string, rowsSynced int64, metadata map[string]any) error
	FailSync(ctx context.Context, runID string, syncErr error) error
	LastSuccess(ctx context.Context, dataset string) (*time.Time, error)
	LastSyncMetadata(ctx context.Context, dataset string) (map[string]any, error)
	ListSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// marshalSyncMetadata encodes sync-run metadata for storage. Nil or
// empty metadata stores as NULL.
func marshalSyncMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal sync metadata")
	}
	return b, nil
}

// unmarshalSyncMetadata decodes stored sync-run metadata.
func unmarshalSyncMetadata(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal(b, &metadata); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal sync metadata")
	}
	return metadata, nil
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
