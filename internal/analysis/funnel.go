package analysis

import (
	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/model"
)

// minutesPerDay is the funnel's top stage.
const minutesPerDay = 24 * 60

// FunnelStage is one narrowing step from the whole day down to a
// single activity.
type FunnelStage struct {
	Name            string  `json:"name"`
	Minutes         float64 `json:"minutes"`
	PercentOfDay    float64 `json:"percent_of_day"`
	PercentOfParent float64 `json:"percent_of_parent"`
}

// Funnel narrows the full day to leisure, leisure to screen time, and
// screen time to games and computer use.
type Funnel struct {
	Year   int           `json:"year"`
	Stages []FunnelStage `json:"stages"`
}

// latestOverall collapses statistics to one per name, all drawn from
// the most recent year present. When a name appears for several
// demographic groups in that year, the population-wide row wins.
func latestOverall(stats []model.Statistic) map[string]model.Statistic {
	latest := 0
	for _, s := range stats {
		if s.Year > latest {
			latest = s.Year
		}
	}

	byName := make(map[string]model.Statistic, len(stats))
	for _, s := range stats {
		if s.Year != latest {
			continue
		}
		if cur, ok := byName[s.Name]; ok {
			if cur.Demographic == model.AllAges || s.Demographic != model.AllAges {
				continue
			}
		}
		byName[s.Name] = s
	}
	return byName
}

// BuildFunnel derives the funnel from named summary statistics. It
// needs total leisure, TV, and the combined games-and-computer figure,
// all taken from the most recent year in the input.
func BuildFunnel(stats []model.Statistic) (*Funnel, error) {
	byName := latestOverall(stats)

	leisure, okLeisure := byName[model.StatTotalLeisure]
	tv, okTV := byName[model.StatTV]
	gaming, okGaming := byName[model.StatGamingAndComp]
	if !okLeisure || !okTV || !okGaming {
		return nil, eris.New("analysis: funnel requires total leisure, TV, and gaming statistics")
	}

	screen := tv.Value + gaming.Value

	stage := func(name string, minutes, parent float64) FunnelStage {
		s := FunnelStage{
			Name:         name,
			Minutes:      minutes,
			PercentOfDay: minutes / minutesPerDay * 100,
		}
		if parent > 0 {
			s.PercentOfParent = minutes / parent * 100
		}
		return s
	}

	return &Funnel{
		Year: leisure.Year,
		Stages: []FunnelStage{
			stage("Full day", minutesPerDay, 0),
			stage("Leisure time", leisure.Value, minutesPerDay),
			stage("Screen time", screen, leisure.Value),
			stage(ActivityGaming, gaming.Value, screen),
		},
	}, nil
}
