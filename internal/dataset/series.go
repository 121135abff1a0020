package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/bls"
	"github.com/atusdev/timeuse-cli/internal/model"
)

// SeriesGroup syncs one catalog group of BLS series: observations for
// the configured year range, plus named statistics derived from the
// latest observation of each cataloged series.
type SeriesGroup struct {
	name      string
	catalog   *atus.Catalog
	yearsBack int
}

// NewSeriesGroup creates a dataset for the named catalog group.
func NewSeriesGroup(name string, catalog *atus.Catalog, yearsBack int) *SeriesGroup {
	if yearsBack <= 0 {
		yearsBack = 5
	}
	return &SeriesGroup{name: name, catalog: catalog, yearsBack: yearsBack}
}

func (d *SeriesGroup) Name() string     { return d.name }
func (d *SeriesGroup) Table() string    { return "observations" }
func (d *SeriesGroup) Group() Group     { return GroupSeries }
func (d *SeriesGroup) Cadence() Cadence { return Annual }

func (d *SeriesGroup) ShouldRun(now time.Time, lastSync *time.Time) bool {
	return AnnualAfter(now, lastSync, atusReleaseMonth)
}

func (d *SeriesGroup) Sync(ctx context.Context, deps Deps) (*SyncResult, error) {
	log := zap.L().With(zap.String("dataset", d.name))

	group, err := d.catalog.Group(d.name)
	if err != nil {
		return nil, err
	}
	ids := group.IDs()

	endYear := time.Now().UTC().Year()
	startYear := endYear - d.yearsBack

	series, err := deps.BLS.FetchSeries(ctx, ids, startYear, endYear)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: fetch %s series", d.name)
	}

	syncedAt := time.Now().UTC()
	obs := bls.Flatten(series, syncedAt)

	n, err := deps.Store.UpsertObservations(ctx, obs)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: upsert %s observations", d.name)
	}

	stats := d.deriveStatistics(obs, syncedAt)
	if _, err := deps.Store.UpsertStatistics(ctx, stats); err != nil {
		return nil, eris.Wrapf(err, "dataset: upsert %s statistics", d.name)
	}

	log.Info("series group synced",
		zap.Int("series", len(series)),
		zap.Int64("observations", n),
		zap.Int("statistics", len(stats)))

	return &SyncResult{
		RowsSynced: n,
		Metadata:   map[string]any{"series": len(series), "statistics": len(stats)},
	}, nil
}

// deriveStatistics maps each series' latest observation to the named
// statistic the catalog binds it to.
func (d *SeriesGroup) deriveStatistics(obs []model.Observation, extractedAt time.Time) []model.Statistic {
	var stats []model.Statistic
	for _, o := range obs {
		if !o.Latest {
			continue
		}
		entry, ok := d.catalog.Lookup(o.SeriesID)
		if !ok || entry.Stat == "" {
			continue
		}
		stats = append(stats, model.Statistic{
			Name:        entry.Stat,
			Demographic: entry.Demographic,
			Value:       o.Value,
			Year:        o.Year,
			Source:      model.SourceAPI,
			SeriesID:    o.SeriesID,
			ExtractedAt: extractedAt,
		})
	}
	return stats
}
