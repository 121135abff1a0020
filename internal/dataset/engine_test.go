package dataset

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atusdev/timeuse-cli/internal/model"
	"github.com/atusdev/timeuse-cli/internal/store"
)

// fakeDataset is a scriptable dataset for engine tests.
type fakeDataset struct {
	name      string
	shouldRun bool
	rows      int64
	err       error
	syncCalls int
}

func (d *fakeDataset) Name() string     { return d.name }
func (d *fakeDataset) Table() string    { return "observations" }
func (d *fakeDataset) Group() Group     { return GroupSeries }
func (d *fakeDataset) Cadence() Cadence { return Annual }

func (d *fakeDataset) ShouldRun(now time.Time, lastSync *time.Time) bool {
	return d.shouldRun
}

func (d *fakeDataset) Sync(ctx context.Context, deps Deps) (*SyncResult, error) {
	d.syncCalls++
	if d.err != nil {
		return nil, d.err
	}
	return &SyncResult{RowsSynced: d.rows}, nil
}

func newEngineStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(t.Context()))
	return s
}

func TestEngineRun(t *testing.T) {
	s := newEngineStore(t)

	due := &fakeDataset{name: "due", shouldRun: true, rows: 7}
	notDue := &fakeDataset{name: "not_due", shouldRun: false}
	failing := &fakeDataset{name: "failing", shouldRun: true, err: eris.New("upstream down")}

	reg := &Registry{datasets: map[string]Dataset{}}
	reg.Register(due)
	reg.Register(notDue)
	reg.Register(failing)

	e := NewEngine(Deps{Store: s}, reg)
	stats, err := e.Run(t.Context(), RunOpts{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Synced)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, due.syncCalls)
	assert.Equal(t, 0, notDue.syncCalls)

	runs, err := s.ListSyncRuns(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byDataset := make(map[string]model.SyncRun)
	for _, r := range runs {
		byDataset[r.Dataset] = r
	}
	assert.Equal(t, model.SyncComplete, byDataset["due"].Status)
	assert.Equal(t, int64(7), byDataset["due"].RowsSynced)
	assert.Equal(t, model.SyncFailed, byDataset["failing"].Status)
	assert.Contains(t, byDataset["failing"].Error, "upstream down")
}

func TestEngineRun_ForceIgnoresSchedule(t *testing.T) {
	s := newEngineStore(t)

	notDue := &fakeDataset{name: "not_due", shouldRun: false, rows: 3}
	reg := &Registry{datasets: map[string]Dataset{}}
	reg.Register(notDue)

	e := NewEngine(Deps{Store: s}, reg)
	stats, err := e.Run(t.Context(), RunOpts{Force: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Synced)
	assert.Equal(t, 1, notDue.syncCalls)
}

func TestEngineRun_SkipsWhenRecentlySynced(t *testing.T) {
	s := newEngineStore(t)

	// A completed sync recorded just now keeps an AnnualAfter dataset quiet.
	run, err := s.StartSync(t.Context(), "scheduled")
	require.NoError(t, err)
	require.NoError(t, s.CompleteSync(t.Context(), run.ID, 1, nil))

	scheduled := &annualDataset{name: "scheduled"}
	reg := &Registry{datasets: map[string]Dataset{}}
	reg.Register(scheduled)

	e := NewEngine(Deps{Store: s}, reg)
	stats, err := e.Run(t.Context(), RunOpts{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped+stats.Synced)
}

// annualDataset exercises the real AnnualAfter schedule.
type annualDataset struct {
	name string
}

func (d *annualDataset) Name() string     { return d.name }
func (d *annualDataset) Table() string    { return "observations" }
func (d *annualDataset) Group() Group     { return GroupSeries }
func (d *annualDataset) Cadence() Cadence { return Annual }

func (d *annualDataset) ShouldRun(now time.Time, lastSync *time.Time) bool {
	return AnnualAfter(now, lastSync, atusReleaseMonth)
}

func (d *annualDataset) Sync(ctx context.Context, deps Deps) (*SyncResult, error) {
	return &SyncResult{}, nil
}

func TestEngineRun_SelectByName(t *testing.T) {
	s := newEngineStore(t)

	a := &fakeDataset{name: "a", shouldRun: true}
	b := &fakeDataset{name: "b", shouldRun: true}
	reg := &Registry{datasets: map[string]Dataset{}}
	reg.Register(a)
	reg.Register(b)

	e := NewEngine(Deps{Store: s}, reg)
	_, err := e.Run(t.Context(), RunOpts{Datasets: []string{"b"}})
	require.NoError(t, err)

	assert.Equal(t, 0, a.syncCalls)
	assert.Equal(t, 1, b.syncCalls)
}

func TestEngineRun_UnknownDataset(t *testing.T) {
	s := newEngineStore(t)
	reg := &Registry{datasets: map[string]Dataset{}}

	e := NewEngine(Deps{Store: s}, reg)
	_, err := e.Run(t.Context(), RunOpts{Datasets: []string{"nope"}})
	assert.Error(t, err)
}
