package bls

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/model"
)

// Flatten converts API series into observations. ATUS publishes values
// as hours per day; observations store minutes. Data points with the
// missing-value marker or an unparseable year are dropped.
func Flatten(series []Series, syncedAt time.Time) []model.Observation {
	log := zap.L().With(zap.String("component", "bls"))

	var obs []model.Observation
	for _, s := range series {
		var title, survey string
		if s.Catalog != nil {
			title = s.Catalog.SeriesTitle
			survey = s.Catalog.SurveyName
		}

		for _, dp := range s.Data {
			if dp.Value == missingValue {
				continue
			}

			hours, err := strconv.ParseFloat(dp.Value, 64)
			if err != nil {
				log.Warn("unparseable value",
					zap.String("series", s.SeriesID),
					zap.String("value", dp.Value))
				continue
			}

			year, err := strconv.Atoi(dp.Year)
			if err != nil {
				log.Warn("unparseable year",
					zap.String("series", s.SeriesID),
					zap.String("year", dp.Year))
				continue
			}

			obs = append(obs, model.Observation{
				SeriesID:   s.SeriesID,
				Title:      title,
				Survey:     survey,
				Year:       year,
				Period:     dp.Period,
				PeriodName: dp.PeriodName,
				Value:      model.MinutesFromHours(hours),
				Latest:     dp.Latest == "true",
				Footnotes:  joinFootnotes(dp.Footnotes),
				SyncedAt:   syncedAt,
			})
		}
	}
	return obs
}

func joinFootnotes(fns []Footnote) string {
	var parts []string
	for _, fn := range fns {
		if fn.Text != "" {
			parts = append(parts, fn.Text)
		} else if fn.Code != "" {
			parts = append(parts, fn.Code)
		}
	}
	return strings.Join(parts, "; ")
}
