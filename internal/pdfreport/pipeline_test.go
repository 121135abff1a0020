package pdfreport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atusdev/timeuse-cli/internal/config"
	"github.com/atusdev/timeuse-cli/internal/model"
)

// pageExtractor serves canned text per page, standing in for pdftotext.
type pageExtractor struct {
	pages map[int]string
}

func (p *pageExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	var all []string
	for _, text := range p.pages {
		all = append(all, text)
	}
	return strings.Join(all, "\f"), nil
}

func (p *pageExtractor) ExtractPages(ctx context.Context, pdfPath string, first, last int) (string, error) {
	var out []string
	for page := first; page <= last; page++ {
		out = append(out, p.pages[page])
	}
	return strings.Join(out, "\f"), nil
}

func fixtureExtractor() *pageExtractor {
	return &pageExtractor{pages: map[int]string{
		2:  summaryFixture,
		23: table11AFixture,
		24: table11BFixture,
		30: "Watching television ....... 2:45\n",
	}}
}

func TestPipeline_Run(t *testing.T) {
	p := NewPipeline(fixtureExtractor(), config.ExtractConfig{
		Table11APage: 23,
		Table11BPage: 24,
	})

	ex, err := p.Run(t.Context(), "release.pdf", 2024)
	require.NoError(t, err)

	assert.Equal(t, 2024, ex.Year)
	assert.Len(t, ex.Statistics, 6)
	assert.True(t, ex.Coverage.Complete())

	// Five 11A rows plus two 11B rows split into day types.
	assert.Len(t, ex.Demographics, 5+4)

	var dayTypes []model.DayType
	for _, row := range ex.Demographics {
		dayTypes = append(dayTypes, row.DayType)
	}
	assert.Contains(t, dayTypes, model.AllDays)
	assert.Contains(t, dayTypes, model.Weekday)
	assert.Contains(t, dayTypes, model.Weekend)
}

func TestPipeline_StrictIncompleteSummary(t *testing.T) {
	ext := fixtureExtractor()
	ext.pages[2] = "nothing recognizable here"

	p := NewPipeline(ext, config.ExtractConfig{
		Table11APage: 23,
		Table11BPage: 24,
		Strict:       true,
	})

	_, err := p.Run(t.Context(), "release.pdf", 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in summary")
}

func TestPipeline_LenientIncompleteSummary(t *testing.T) {
	ext := fixtureExtractor()
	ext.pages[2] = "nothing recognizable here"

	p := NewPipeline(ext, config.ExtractConfig{
		Table11APage: 23,
		Table11BPage: 24,
	})

	ex, err := p.Run(t.Context(), "release.pdf", 2024)
	require.NoError(t, err)
	assert.Empty(t, ex.Statistics)
	assert.Len(t, ex.Coverage.Missing(), 6)
	assert.NotEmpty(t, ex.Demographics)
}

func TestPipeline_ActivityTable(t *testing.T) {
	p := NewPipeline(fixtureExtractor(), config.ExtractConfig{})

	rows, err := p.ActivityTable(t.Context(), "release.pdf", 30)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Watching television", rows[0].Activity)
	assert.InDelta(t, 165.0, rows[0].Minutes, 0.001)
}
