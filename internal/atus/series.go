// Package atus models the ATUS series-ID taxonomy and activity coding
// lexicon that the BLS publishes alongside the survey.
package atus

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// AverageType distinguishes the two published averaging conventions.
type AverageType string

const (
	// PopulationAvg (A01) averages over the whole population, including
	// people who did not do the activity at all on the diary day.
	PopulationAvg AverageType = "01"

	// ParticipantAvg (A02) averages only over people who spent time on
	// the activity.
	ParticipantAvg AverageType = "02"
)

// SeriesID is a decomposed ATUS time-series identifier. The wire form
// is TUU + population code (5) + "AA" + average type (2) + activity
// code (6), e.g. TUU10101AA01014236.
type SeriesID struct {
	Population string      // 5-digit population/demographic code, "10101" = all persons 15+
	Average    AverageType // A01 or A02 convention
	Activity   string      // 6-digit activity code
}

const (
	seriesPrefix = "TUU"
	seriesLen    = 18

	// PopulationAll is the population code for all persons 15 years and over.
	PopulationAll = "10101"
)

// String renders the identifier in its wire form.
func (s SeriesID) String() string {
	return seriesPrefix + s.Population + "AA" + string(s.Average) + s.Activity
}

// BuildSeriesID constructs a series ID from its components.
func BuildSeriesID(population string, avg AverageType, activity string) string {
	return SeriesID{Population: population, Average: avg, Activity: activity}.String()
}

// ParseSeriesID decomposes a wire-form series ID. The taxonomy is
// externally defined, so only structure is validated, not whether the
// component codes actually exist upstream.
func ParseSeriesID(id string) (SeriesID, error) {
	if len(id) != seriesLen {
		return SeriesID{}, eris.Errorf("atus: series id %q: want %d chars, got %d", id, seriesLen, len(id))
	}
	if !strings.HasPrefix(id, seriesPrefix) {
		return SeriesID{}, eris.Errorf("atus: series id %q: missing %s prefix", id, seriesPrefix)
	}
	if id[8:10] != "AA" {
		return SeriesID{}, eris.Errorf("atus: series id %q: missing AA estimate marker", id)
	}

	avg := AverageType(id[10:12])
	if avg != PopulationAvg && avg != ParticipantAvg {
		return SeriesID{}, eris.Errorf("atus: series id %q: unknown average type %q", id, string(avg))
	}

	return SeriesID{
		Population: id[3:8],
		Average:    avg,
		Activity:   id[12:],
	}, nil
}

// Describe returns a short human-readable description of a series ID,
// resolving the activity code against the lexicon when available.
func Describe(id string, lex *Lexicon) string {
	parsed, err := ParseSeriesID(id)
	if err != nil {
		return id
	}

	avg := "population avg"
	if parsed.Average == ParticipantAvg {
		avg = "participant avg"
	}

	activity := parsed.Activity
	if lex != nil {
		if desc, ok := lex.Describe(parsed.Activity); ok {
			activity = desc
		}
	}

	return fmt.Sprintf("%s (%s)", activity, avg)
}
