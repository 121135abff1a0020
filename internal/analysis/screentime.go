package analysis

import (
	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/model"
)

// ScreenTime combines TV watching with games-and-computer leisure into
// a single figure, with each component's share of the combined total.
type ScreenTime struct {
	Demographic   string  `json:"demographic"`
	Year          int     `json:"year"`
	TV            float64 `json:"tv"`
	Gaming        float64 `json:"gaming"`
	Total         float64 `json:"total"`
	TVPercent     float64 `json:"tv_percent"`
	GamingPercent float64 `json:"gaming_percent"`
}

func screenTime(demographic string, year int, tv, gaming float64) ScreenTime {
	st := ScreenTime{
		Demographic: demographic,
		Year:        year,
		TV:          tv,
		Gaming:      gaming,
		Total:       tv + gaming,
	}
	if st.Total > 0 {
		st.TVPercent = tv / st.Total * 100
		st.GamingPercent = gaming / st.Total * 100
	}
	return st
}

// ScreenTimeFromStats builds the combined figure from named summary
// statistics, taken from the most recent year in the input. It requires
// the TV statistic and either the combined games-and-computer statistic
// or both of its components.
func ScreenTimeFromStats(stats []model.Statistic) (*ScreenTime, error) {
	byName := latestOverall(stats)

	tv, ok := byName[model.StatTV]
	if !ok {
		return nil, eris.New("analysis: screen time requires the TV statistic")
	}

	var gaming float64
	if combined, ok := byName[model.StatGamingAndComp]; ok {
		gaming = combined.Value
	} else {
		games, okGames := byName[model.StatGaming]
		computer, okComputer := byName[model.StatComputer]
		if !okGames || !okComputer {
			return nil, eris.New("analysis: screen time requires games and computer statistics")
		}
		gaming = games.Value + computer.Value
	}

	st := screenTime(tv.Demographic, tv.Year, tv.Value, gaming)
	return &st, nil
}

// ScreenTimeFromRow builds the combined figure from one demographic row.
func ScreenTimeFromRow(row model.DemographicRow) ScreenTime {
	return screenTime(row.Demographic, row.Year, row.TV, row.Gaming)
}
