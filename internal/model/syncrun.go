package model

import "time"

// SyncStatus is the lifecycle state of one dataset sync run.
type SyncStatus string

const (
	SyncRunning  SyncStatus = "running"
	SyncComplete SyncStatus = "complete"
	SyncFailed   SyncStatus = "failed"
)

// SyncRun is one sync-log entry for a dataset.
type SyncRun struct {
	ID          string     `json:"id"`
	Dataset     string     `json:"dataset"`
	Status      SyncStatus `json:"status"`
	RowsSynced  int64      `json:"rows_synced"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Metadata carries dataset-specific state between runs, such as the
	// ETag of the last downloaded reference file.
	Metadata map[string]any `json:"metadata,omitempty"`
}
