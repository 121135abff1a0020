package pdfreport

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/config"
	"github.com/atusdev/timeuse-cli/internal/model"
	"github.com/atusdev/timeuse-cli/internal/ocr"
)

// summaryPage is where the news release narrative lives.
const summaryPage = 2

// Extraction is the result of one full pass over a news release PDF.
type Extraction struct {
	Year         int                    `json:"year"`
	Statistics   []model.Statistic      `json:"statistics"`
	Demographics []model.DemographicRow `json:"demographics"`
	Coverage     *Coverage              `json:"-"`
}

// Pipeline runs text extraction and parsing over a news release PDF.
type Pipeline struct {
	ex  ocr.Extractor
	cfg config.ExtractConfig
}

// NewPipeline creates a Pipeline using the given text extractor.
func NewPipeline(ex ocr.Extractor, cfg config.ExtractConfig) *Pipeline {
	return &Pipeline{ex: ex, cfg: cfg}
}

// Run extracts the summary statistics and both demographic tables.
// In strict mode an incomplete summary is an error; otherwise the
// gaps are reported through Extraction.Coverage.
func (p *Pipeline) Run(ctx context.Context, pdfPath string, year int) (*Extraction, error) {
	log := zap.L().With(zap.String("component", "pdfreport"), zap.String("pdf", pdfPath))
	extractedAt := time.Now().UTC()

	summaryText, err := p.ex.ExtractPages(ctx, pdfPath, summaryPage, summaryPage)
	if err != nil {
		return nil, eris.Wrap(err, "pdfreport: extract summary page")
	}

	stats, cov := ExtractSummary(summaryText, year, extractedAt)
	if p.cfg.Strict {
		if err := cov.Err(); err != nil {
			return nil, err
		}
	}

	var demographics []model.DemographicRow

	textA, err := p.ex.ExtractPages(ctx, pdfPath, p.cfg.Table11APage, p.cfg.Table11APage)
	if err != nil {
		return nil, eris.Wrap(err, "pdfreport: extract table 11A page")
	}
	demographics = append(demographics, ParseTable11A(textA, year, extractedAt)...)

	textB, err := p.ex.ExtractPages(ctx, pdfPath, p.cfg.Table11BPage, p.cfg.Table11BPage)
	if err != nil {
		return nil, eris.Wrap(err, "pdfreport: extract table 11B page")
	}
	demographics = append(demographics, ParseTable11B(textB, year, extractedAt)...)

	log.Info("extraction complete",
		zap.Int("statistics", len(stats)),
		zap.Int("demographic_rows", len(demographics)),
		zap.Strings("missing", cov.Missing()))

	return &Extraction{
		Year:         year,
		Statistics:   stats,
		Demographics: demographics,
		Coverage:     cov,
	}, nil
}

// ActivityTable extracts h:mm activity durations from a single page of
// the detailed activity tables.
func (p *Pipeline) ActivityTable(ctx context.Context, pdfPath string, page int) ([]ActivityDuration, error) {
	text, err := p.ex.ExtractPages(ctx, pdfPath, page, page)
	if err != nil {
		return nil, eris.Wrapf(err, "pdfreport: extract activity page %d", page)
	}
	return ParseClockRows(text), nil
}
