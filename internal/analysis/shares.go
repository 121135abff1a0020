// Package analysis derives comparative figures from extracted time-use
// data: activity shares of leisure, combined screen time, gender gaps,
// and the day-to-activity funnel.
package analysis

import (
	"github.com/atusdev/timeuse-cli/internal/model"
)

// Share is one activity's slice of total leisure time.
type Share struct {
	Activity string  `json:"activity"`
	Minutes  float64 `json:"minutes"`
	Percent  float64 `json:"percent"`
}

// Breakdown decomposes one demographic's leisure time by activity.
type Breakdown struct {
	Demographic  string        `json:"demographic"`
	DayType      model.DayType `json:"day_type"`
	TotalLeisure float64       `json:"total_leisure"`
	Shares       []Share       `json:"shares"`
}

// activity column labels shared with the report layer.
const (
	ActivitySports      = "Sports and exercise"
	ActivitySocializing = "Socializing and communicating"
	ActivityTV          = "Watching TV"
	ActivityReading     = "Reading"
	ActivityRelaxing    = "Relaxing and thinking"
	ActivityGaming      = "Games and computer use"
	ActivityOther       = "Other leisure"
)

// BreakdownRow computes the per-activity shares of a demographic row.
// A zero total leisure value yields zero percentages rather than NaN.
func BreakdownRow(row model.DemographicRow) Breakdown {
	pct := func(minutes float64) float64 {
		if row.TotalLeisure == 0 {
			return 0
		}
		return minutes / row.TotalLeisure * 100
	}

	shares := []Share{
		{ActivityTV, row.TV, pct(row.TV)},
		{ActivityGaming, row.Gaming, pct(row.Gaming)},
		{ActivitySocializing, row.Socializing, pct(row.Socializing)},
		{ActivitySports, row.Sports, pct(row.Sports)},
		{ActivityReading, row.Reading, pct(row.Reading)},
		{ActivityRelaxing, row.Relaxing, pct(row.Relaxing)},
		{ActivityOther, row.Other, pct(row.Other)},
	}

	return Breakdown{
		Demographic:  row.Demographic,
		DayType:      row.DayType,
		TotalLeisure: row.TotalLeisure,
		Shares:       shares,
	}
}

// BreakdownRows computes shares for every row, preserving order.
func BreakdownRows(rows []model.DemographicRow) []Breakdown {
	out := make([]Breakdown, len(rows))
	for i, row := range rows {
		out[i] = BreakdownRow(row)
	}
	return out
}
