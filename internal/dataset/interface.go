// Package dataset defines the syncable data sources and the engine
// that schedules and runs them against the store.
package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/bls"
	"github.com/atusdev/timeuse-cli/internal/fetcher"
	"github.com/atusdev/timeuse-cli/internal/store"
)

// Group buckets datasets by acquisition path.
type Group int

const (
	GroupSeries    Group = iota + 1 // BLS time-series API
	GroupReference                  // reference files (lexicon workbook)
)

// String returns the human-readable group name.
func (g Group) String() string {
	switch g {
	case GroupSeries:
		return "series"
	case GroupReference:
		return "reference"
	default:
		return "unknown"
	}
}

// ParseGroup converts a string like "series" or "reference" into a Group.
func ParseGroup(s string) (Group, error) {
	switch s {
	case "series":
		return GroupSeries, nil
	case "reference":
		return GroupReference, nil
	default:
		return 0, eris.Errorf("unknown group: %q (valid: series, reference)", s)
	}
}

// Cadence describes how often a dataset is updated upstream.
type Cadence string

const (
	Annual Cadence = "annual"
)

// SyncResult holds the outcome of a dataset sync.
type SyncResult struct {
	RowsSynced int64          `json:"rows_synced"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Deps bundles the shared services a dataset sync needs.
type Deps struct {
	Store   store.Store
	BLS     *bls.Client
	Fetcher fetcher.Fetcher
	TempDir string
}

// Dataset defines the interface each data source must implement.
type Dataset interface {
	// Name returns the unique identifier for this dataset (e.g., "leisure_summary").
	Name() string

	// Table returns the primary target table.
	Table() string

	// Group returns which acquisition path this dataset belongs to.
	Group() Group

	// Cadence returns how often this dataset is updated upstream.
	Cadence() Cadence

	// ShouldRun decides if this dataset needs syncing given the current time
	// and the time of the last successful sync (nil if never synced).
	ShouldRun(now time.Time, lastSync *time.Time) bool

	// Sync performs the actual download, parse, and load into the store.
	Sync(ctx context.Context, deps Deps) (*SyncResult, error)
}
