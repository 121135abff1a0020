package pdfreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atusdev/timeuse-cli/internal/model"
)

const summaryFixture = `
Watching TV was the leisure activity that occupied the most time
(2.5 hours per day), accounting for just over half of all leisure time
on an average day (5.1 hours per day). Individuals spent 26 minutes playing games and
using a computer for leisure on an average day, and 34 minutes socializing and communicating.

On an average day, men spent more time in leisure and sports activities than
did women (5.5 hours, compared with 4.8 hours).
`

func findStat(t *testing.T, stats []model.Statistic, name string) model.Statistic {
	t.Helper()
	for _, s := range stats {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("statistic %s not extracted", name)
	return model.Statistic{}
}

func TestExtractSummary(t *testing.T) {
	extractedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	stats, cov := ExtractSummary(summaryFixture, 2024, extractedAt)

	require.Len(t, stats, 6)
	assert.True(t, cov.Complete())
	assert.Empty(t, cov.Missing())
	assert.NoError(t, cov.Err())

	tv := findStat(t, stats, model.StatTV)
	assert.InDelta(t, 150.0, tv.Value, 0.001)
	assert.Equal(t, "All ages", tv.Demographic)
	assert.Equal(t, model.SourcePDF, tv.Source)
	assert.Equal(t, 2024, tv.Year)
	assert.Equal(t, extractedAt, tv.ExtractedAt)

	leisure := findStat(t, stats, model.StatTotalLeisure)
	assert.InDelta(t, 306.0, leisure.Value, 0.001)

	gaming := findStat(t, stats, model.StatGamingAndComp)
	assert.InDelta(t, 26.0, gaming.Value, 0.001)

	social := findStat(t, stats, model.StatSocializing)
	assert.InDelta(t, 34.0, social.Value, 0.001)

	men := findStat(t, stats, model.StatMenLeisure)
	assert.InDelta(t, 330.0, men.Value, 0.001)
	assert.Equal(t, "Men", men.Demographic)

	women := findStat(t, stats, model.StatWomenLeisure)
	assert.InDelta(t, 288.0, women.Value, 0.001)
	assert.Equal(t, "Women", women.Demographic)
}

func TestExtractSummary_PartialMatch(t *testing.T) {
	text := `Watching TV was the leisure activity that occupied the most time (2.7 hours per day).`
	stats, cov := ExtractSummary(text, 2023, time.Now())

	require.Len(t, stats, 1)
	assert.Equal(t, model.StatTV, stats[0].Name)

	assert.False(t, cov.Complete())
	assert.True(t, cov.Found(model.StatTV))
	assert.False(t, cov.Found(model.StatTotalLeisure))

	missing := cov.Missing()
	assert.Len(t, missing, 5)
	assert.Contains(t, missing, model.StatTotalLeisure)
	assert.Contains(t, missing, model.StatSocializing)

	err := cov.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.StatGamingAndComp)
}

func TestExtractSummary_Empty(t *testing.T) {
	stats, cov := ExtractSummary("", 2024, time.Now())
	assert.Empty(t, stats)
	assert.Len(t, cov.Missing(), 6)
}
