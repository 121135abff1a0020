package model

import "time"

// Source identifies which acquisition path produced a value.
type Source string

const (
	SourceAPI Source = "api" // BLS time-series API
	SourcePDF Source = "pdf" // news-release PDF extraction
)

// Well-known statistic names shared between the PDF extractor, the API
// datasets, and the report layer.
const (
	StatTotalLeisure  = "total_leisure"
	StatTV            = "watching_tv"
	StatGaming        = "playing_games"
	StatComputer      = "computer_excl_games"
	StatGamingAndComp = "gaming_and_computer"
	StatSocializing   = "socializing"
	StatMenLeisure    = "men_leisure"
	StatWomenLeisure  = "women_leisure"
)

// AllAges is the demographic label for population-wide statistics.
const AllAges = "All ages"

// Statistic is a single named time-use figure, in minutes per day.
type Statistic struct {
	Name        string    `json:"name"`
	Demographic string    `json:"demographic"` // "All ages", "Men", "15 to 24 years", ...
	Value       float64   `json:"value"`       // minutes per day
	Year        int       `json:"year"`
	Source      Source    `json:"source"`
	SeriesID    string    `json:"series_id,omitempty"` // set for API-sourced values
	ExtractedAt time.Time `json:"extracted_at,omitempty"`
}

// In returns the statistic's value expressed in the given unit.
func (s Statistic) In(unit Unit) float64 {
	return Convert(s.Value, unit)
}
