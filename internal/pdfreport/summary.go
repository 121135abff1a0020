package pdfreport

import (
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/model"
)

// The narrative summary quotes figures inline; these patterns match the
// published phrasing. Character classes like [^(]+ cross line breaks,
// which the wrapped narrative text requires.
var (
	reTVHours = regexp.MustCompile(
		`Watching TV was the leisure[^(]+\((\d+\.\d+) hours per day\)`)
	reTotalLeisureHours = regexp.MustCompile(
		`all leisure time[^(]+\((\d+\.\d+) hours per day\)`)
	reGamingMinutes = regexp.MustCompile(
		`(\d+) minutes playing games and\s+using a computer for leisure`)
	reSocializingMinutes = regexp.MustCompile(
		`(\d+) minutes socializing and communicating`)
	reGenderLeisure = regexp.MustCompile(
		`men spent more time[^(]+than\s+did women \((\d+\.\d+) hours, compared with (\d+\.\d+) hours\)`)
)

// ExtractSummary pulls the named statistics out of the summary page
// text. Unmatched patterns produce no statistic; the returned Coverage
// records which ones were found.
func ExtractSummary(text string, year int, extractedAt time.Time) ([]model.Statistic, *Coverage) {
	log := zap.L().With(zap.String("component", "pdfreport"))
	cov := newCoverage()

	var stats []model.Statistic
	add := func(name, demographic string, minutes float64) {
		cov.mark(name)
		stats = append(stats, model.Statistic{
			Name:        name,
			Demographic: demographic,
			Value:       minutes,
			Year:        year,
			Source:      model.SourcePDF,
			ExtractedAt: extractedAt,
		})
	}

	if m := reTVHours.FindStringSubmatch(text); m != nil {
		add(model.StatTV, model.AllAges, model.MinutesFromHours(mustFloat(m[1])))
	}
	if m := reTotalLeisureHours.FindStringSubmatch(text); m != nil {
		add(model.StatTotalLeisure, model.AllAges, model.MinutesFromHours(mustFloat(m[1])))
	}
	if m := reGamingMinutes.FindStringSubmatch(text); m != nil {
		add(model.StatGamingAndComp, model.AllAges, mustFloat(m[1]))
	}
	if m := reSocializingMinutes.FindStringSubmatch(text); m != nil {
		add(model.StatSocializing, model.AllAges, mustFloat(m[1]))
	}
	if m := reGenderLeisure.FindStringSubmatch(text); m != nil {
		add(model.StatMenLeisure, "Men", model.MinutesFromHours(mustFloat(m[1])))
		add(model.StatWomenLeisure, "Women", model.MinutesFromHours(mustFloat(m[2])))
	}

	if missing := cov.Missing(); len(missing) > 0 {
		log.Warn("summary statistics not matched", zap.Strings("missing", missing))
	}

	return stats, cov
}

// mustFloat parses a string already validated by a \d-only capture group.
func mustFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic("pdfreport: non-numeric capture: " + s)
	}
	return v
}
