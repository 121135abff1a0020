package model

import "time"

// Observation is one series-year data point flattened out of a BLS API
// response. Value is always minutes per day.
type Observation struct {
	SeriesID   string    `json:"series_id"`
	Title      string    `json:"title,omitempty"`
	Survey     string    `json:"survey,omitempty"`
	Year       int       `json:"year"`
	Period     string    `json:"period"`
	PeriodName string    `json:"period_name,omitempty"`
	Value      float64   `json:"value"`
	Latest     bool      `json:"latest"`
	Footnotes  string    `json:"footnotes,omitempty"`
	SyncedAt   time.Time `json:"synced_at,omitempty"`
}

// ObservationFilter selects observations from the store.
type ObservationFilter struct {
	SeriesIDs  []string `json:"series_ids,omitempty"`
	Year       int      `json:"year,omitempty"`
	LatestOnly bool     `json:"latest_only,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}
