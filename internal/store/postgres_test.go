package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_LastSuccess_NoHistory(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`last_success`).
		WithArgs("leisure_summary", string(model.SyncComplete)).
		WillReturnError(pgx.ErrNoRows)

	last, err := s.LastSuccess(context.Background(), "leisure_summary")
	require.NoError(t, err)
	assert.Nil(t, last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LastSuccess(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	completed := time.Date(2026, 6, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`last_success`).
		WithArgs("leisure_summary", string(model.SyncComplete)).
		WillReturnRows(pgxmock.NewRows([]string{"completed_at"}).AddRow(completed))

	last, err := s.LastSuccess(context.Background(), "leisure_summary")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, completed, *last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SyncLifecycle(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`insert_sync_run`).
		WithArgs(pgxmock.AnyArg(), "lexicon", string(model.SyncRunning), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.StartSync(context.Background(), "lexicon")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	mock.ExpectExec(`complete_sync`).
		WithArgs(string(model.SyncComplete), int64(10), []byte(`{"etag":"\"abc\""}`), pgxmock.AnyArg(), run.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.CompleteSync(context.Background(), run.ID, 10, map[string]any{"etag": `"abc"`}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LastSyncMetadata(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`last_metadata`).
		WithArgs("lexicon", string(model.SyncComplete)).
		WillReturnRows(pgxmock.NewRows([]string{"metadata"}).AddRow([]byte(`{"etag":"\"abc\""}`)))

	meta, err := s.LastSyncMetadata(context.Background(), "lexicon")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, meta["etag"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailSync_UnknownRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`fail_sync`).
		WithArgs(string(model.SyncFailed), "boom", pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.FailSync(context.Background(), "missing-id", errors.New("boom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertLexicon(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`upsert_lexicon`).
		WithArgs("120303", "Television and movies (not religious)").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`upsert_lexicon`).
		WithArgs("120307", "Playing games").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := s.UpsertLexicon(context.Background(), []atus.ActivityCode{
		{Code: "120303", Description: "Television and movies (not religious)"},
		{Code: "120307", Description: "Playing games"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertStatistics(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	extractedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`upsert_statistic`).
		WithArgs(model.StatTV, "All ages", 150.0, 2024, string(model.SourcePDF), "", extractedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := s.UpsertStatistics(context.Background(), []model.Statistic{
		{Name: model.StatTV, Demographic: "All ages", Value: 150.0, Year: 2024, Source: model.SourcePDF, ExtractedAt: extractedAt},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListStatistics(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	extractedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"name", "demographic", "value", "year", "source", "series_id", "extracted_at"}).
		AddRow(model.StatTV, "All ages", 150.0, 2024, model.SourcePDF, "", extractedAt)

	mock.ExpectQuery(`SELECT name, demographic, value, year, source`).
		WithArgs(2024).
		WillReturnRows(rows)

	stats, err := s.ListStatistics(context.Background(), StatisticFilter{Year: 2024})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, model.StatTV, stats[0].Name)
	assert.InDelta(t, 150.0, stats[0].Value, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertObservations_BulkPath(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_observations"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_observations"}, observationColumns).
		WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "observations"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := s.UpsertObservations(context.Background(), []model.Observation{
		{SeriesID: "TUU10101AA01014236", Year: 2024, Period: "A01", Value: 150, SyncedAt: time.Now()},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
