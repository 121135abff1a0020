package analysis

import (
	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/model"
)

// GenderGap compares men's and women's leisure minutes.
type GenderGap struct {
	Activity string  `json:"activity"`
	Year     int     `json:"year"`
	Men      float64 `json:"men"`
	Women    float64 `json:"women"`
	Gap      float64 `json:"gap"`   // men minus women
	Ratio    float64 `json:"ratio"` // men over women, 0 when undefined
}

func newGap(activity string, year int, men, women float64) GenderGap {
	g := GenderGap{Activity: activity, Year: year, Men: men, Women: women, Gap: men - women}
	if women > 0 {
		g.Ratio = men / women
	}
	return g
}

// GenderGapFromStats builds the total-leisure gap from named summary
// statistics, taken from the most recent year in the input.
func GenderGapFromStats(stats []model.Statistic) (*GenderGap, error) {
	byName := latestOverall(stats)
	men, okMen := byName[model.StatMenLeisure]
	women, okWomen := byName[model.StatWomenLeisure]
	if !okMen || !okWomen {
		return nil, eris.New("analysis: gender gap requires men and women leisure statistics")
	}

	g := newGap("Total leisure", men.Year, men.Value, women.Value)
	return &g, nil
}

// GenderGapsByActivity compares the Men and Women rows of a demographic
// table activity by activity. Rows must share a day type.
func GenderGapsByActivity(rows []model.DemographicRow, dayType model.DayType) ([]GenderGap, error) {
	var men, women *model.DemographicRow
	for i := range rows {
		if rows[i].DayType != dayType {
			continue
		}
		switch rows[i].Demographic {
		case "Men":
			men = &rows[i]
		case "Women":
			women = &rows[i]
		}
	}
	if men == nil || women == nil {
		return nil, eris.Errorf("analysis: no men/women rows for day type %s", dayType)
	}

	year := men.Year
	return []GenderGap{
		newGap("Total leisure", year, men.TotalLeisure, women.TotalLeisure),
		newGap(ActivityTV, year, men.TV, women.TV),
		newGap(ActivityGaming, year, men.Gaming, women.Gaming),
		newGap(ActivitySocializing, year, men.Socializing, women.Socializing),
		newGap(ActivitySports, year, men.Sports, women.Sports),
		newGap(ActivityReading, year, men.Reading, women.Reading),
		newGap(ActivityRelaxing, year, men.Relaxing, women.Relaxing),
		newGap(ActivityOther, year, men.Other, women.Other),
	}, nil
}
