package pdfreport

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/model"
)

var (
	reDecimal = regexp.MustCompile(`\d+\.\d+`)
	reClock   = regexp.MustCompile(`(\d+):(\d{2})`)
)

// table11AKeywords marks rows of interest in the by-demographic table.
var table11AKeywords = []string{
	"Total, 15 years and over",
	"Men",
	"Women",
	"to 24 years",
	"to 34 years",
	"to 44 years",
	"to 54 years",
	"to 64 years",
	"65 to 74 years",
	"75 years and over",
	"Less than a high school",
	"High school grad",
	"Bachelor's degree",
}

// table11BKeywords marks rows of interest in the by-day-type table.
var table11BKeywords = []string{
	"Total, 15 years and over",
	"Men",
	"Women",
	"to 19 years",
	"to 24 years",
	"to 34 years",
	"to 44 years",
	"to 54 years",
	"to 64 years",
}

// Column order in both tables: total leisure, sports, socializing,
// watching TV, reading, relaxing/thinking, games and computer, other.
const columnsPerActivitySet = 8

func matchesAny(line string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// labelBefore returns the demographic label preceding the first numeric
// cell of a table row.
func labelBefore(line, firstNumber string) string {
	label, _, _ := strings.Cut(line, firstNumber)
	return model.NormalizeLabel(label)
}

// ParseTable11A parses the leisure-by-demographic table (hours per day
// per activity, averaged over all days). Some print layouts drop the
// trailing "other" column, so rows with one fewer numeric cell are
// accepted and the missing column reads as zero.
func ParseTable11A(text string, year int, extractedAt time.Time) []model.DemographicRow {
	log := zap.L().With(zap.String("component", "pdfreport"), zap.String("table", "11A"))

	var rows []model.DemographicRow
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || !matchesAny(line, table11AKeywords) {
			continue
		}

		numbers := reDecimal.FindAllString(line, -1)
		if len(numbers) < columnsPerActivitySet-1 {
			continue
		}
		if len(numbers) > columnsPerActivitySet {
			numbers = numbers[:columnsPerActivitySet]
		}

		vals := make([]float64, columnsPerActivitySet)
		for i, n := range numbers {
			vals[i] = model.MinutesFromHours(mustFloat(n))
		}

		rows = append(rows, model.DemographicRow{
			Demographic:  labelBefore(line, numbers[0]),
			DayType:      model.AllDays,
			TotalLeisure: vals[0],
			Sports:       vals[1],
			Socializing:  vals[2],
			TV:           vals[3],
			Reading:      vals[4],
			Relaxing:     vals[5],
			Gaming:       vals[6],
			Other:        vals[7],
			Year:         year,
			Source:       model.SourcePDF,
			ExtractedAt:  extractedAt,
		})
	}

	log.Debug("parsed rows", zap.Int("count", len(rows)))
	return rows
}

// ParseTable11B parses the leisure-by-day-type table, where each
// activity column is a weekday/weekend pair. Each matched line yields
// two rows, one per day type.
func ParseTable11B(text string, year int, extractedAt time.Time) []model.DemographicRow {
	log := zap.L().With(zap.String("component", "pdfreport"), zap.String("table", "11B"))

	var rows []model.DemographicRow
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || !matchesAny(line, table11BKeywords) {
			continue
		}

		numbers := reDecimal.FindAllString(line, -1)
		if len(numbers) < 2*columnsPerActivitySet {
			continue
		}

		vals := make([]float64, 2*columnsPerActivitySet)
		for i := range vals {
			vals[i] = model.MinutesFromHours(mustFloat(numbers[i]))
		}

		label := labelBefore(line, numbers[0])
		for i, dayType := range []model.DayType{model.Weekday, model.Weekend} {
			rows = append(rows, model.DemographicRow{
				Demographic:  label,
				DayType:      dayType,
				TotalLeisure: vals[0+i],
				Sports:       vals[2+i],
				Socializing:  vals[4+i],
				TV:           vals[6+i],
				Reading:      vals[8+i],
				Relaxing:     vals[10+i],
				Gaming:       vals[12+i],
				Other:        vals[14+i],
				Year:         year,
				Source:       model.SourcePDF,
				ExtractedAt:  extractedAt,
			})
		}
	}

	log.Debug("parsed rows", zap.Int("count", len(rows)))
	return rows
}

// ActivityDuration is one row of an hours:minutes activity table.
type ActivityDuration struct {
	Activity string  `json:"activity"`
	Minutes  float64 `json:"minutes"`
}

// ParseClockRows parses activity tables that quote durations as h:mm
// (e.g. "Watching television ......... 2:45"). One duration per line;
// lines without a clock value are skipped.
func ParseClockRows(text string) []ActivityDuration {
	var rows []ActivityDuration
	for _, line := range strings.Split(text, "\n") {
		m := reClock.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		label := labelBefore(line, m[0])
		if label == "" {
			continue
		}

		rows = append(rows, ActivityDuration{
			Activity: label,
			Minutes:  model.MinutesFromClock(int(mustFloat(m[1])), int(mustFloat(m[2]))),
		})
	}
	return rows
}
