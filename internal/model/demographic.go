package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DayType distinguishes the averaging window of a demographic row.
type DayType string

const (
	AllDays  DayType = "all"
	Weekday  DayType = "weekday"
	Weekend  DayType = "weekend"
)

// DemographicRow is one row of a leisure-time demographic table
// (news-release Table 11A/11B). All values are minutes per day.
type DemographicRow struct {
	Demographic  string    `json:"demographic"`
	DayType      DayType   `json:"day_type"`
	TotalLeisure float64   `json:"total_leisure"`
	Sports       float64   `json:"sports"`
	Socializing  float64   `json:"socializing"`
	TV           float64   `json:"tv"`
	Reading      float64   `json:"reading"`
	Relaxing     float64   `json:"relaxing"`
	Gaming       float64   `json:"gaming"`
	Other        float64   `json:"other"`
	Year         int       `json:"year"`
	Source       Source    `json:"source"`
	ExtractedAt  time.Time `json:"extracted_at,omitempty"`
}

var labelCaser = cases.Title(language.AmericanEnglish, cases.NoLower)

// NormalizeLabel canonicalizes a demographic label scraped from the
// report: trailing dot leaders stripped, runs of whitespace collapsed,
// leading article case fixed. "men ....." and "Men" compare equal
// after normalization.
func NormalizeLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ". ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	// Only titlecase single-word labels (Men, Women, Total); age and
	// education buckets keep their published casing.
	if !strings.ContainsRune(s, ' ') {
		s = labelCaser.String(strings.ToLower(s))
	}
	return s
}
