package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/db"
	"github.com/atusdev/timeuse-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations. Store
// methods execute these by name; pgx resolves a name prepared on the
// connection without re-sending the SQL text.
var preparedStatements = map[string]string{
	"insert_sync_run":  `INSERT INTO sync_runs (id, dataset, status, started_at) VALUES ($1, $2, $3, $4)`,
	"complete_sync":    `UPDATE sync_runs SET status = $1, rows_synced = $2, metadata = $3, completed_at = $4 WHERE id = $5`,
	"fail_sync":        `UPDATE sync_runs SET status = $1, error = $2, completed_at = $3 WHERE id = $4`,
	"last_success":     `SELECT completed_at FROM sync_runs WHERE dataset = $1 AND status = $2 ORDER BY completed_at DESC LIMIT 1`,
	"last_metadata":    `SELECT metadata FROM sync_runs WHERE dataset = $1 AND status = $2 ORDER BY completed_at DESC LIMIT 1`,
	"upsert_lexicon":   `INSERT INTO lexicon (code, description) VALUES ($1, $2) ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description`,
	"list_lexicon":     `SELECT code, description FROM lexicon ORDER BY code`,
	"upsert_statistic": `INSERT INTO statistics (name, demographic, value, year, source, series_id, extracted_at) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (name, demographic, year, source) DO UPDATE SET value = EXCLUDED.value, series_id = EXCLUDED.series_id, extracted_at = EXCLUDED.extracted_at`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS observations (
	series_id   TEXT NOT NULL,
	title       TEXT,
	survey      TEXT,
	year        INTEGER NOT NULL,
	period      TEXT NOT NULL,
	period_name TEXT,
	value       DOUBLE PRECISION NOT NULL,
	latest      BOOLEAN NOT NULL DEFAULT false,
	footnotes   TEXT,
	synced_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (series_id, year, period)
);

CREATE TABLE IF NOT EXISTS statistics (
	name         TEXT NOT NULL,
	demographic  TEXT NOT NULL,
	value        DOUBLE PRECISION NOT NULL,
	year         INTEGER NOT NULL,
	source       TEXT NOT NULL,
	series_id    TEXT,
	extracted_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (name, demographic, year, source)
);

CREATE TABLE IF NOT EXISTS demographics (
	demographic   TEXT NOT NULL,
	day_type      TEXT NOT NULL,
	total_leisure DOUBLE PRECISION NOT NULL,
	sports        DOUBLE PRECISION NOT NULL,
	socializing   DOUBLE PRECISION NOT NULL,
	tv            DOUBLE PRECISION NOT NULL,
	reading       DOUBLE PRECISION NOT NULL,
	relaxing      DOUBLE PRECISION NOT NULL,
	gaming        DOUBLE PRECISION NOT NULL,
	other         DOUBLE PRECISION NOT NULL,
	year          INTEGER NOT NULL,
	source        TEXT NOT NULL,
	extracted_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (demographic, day_type, year, source)
);

CREATE TABLE IF NOT EXISTS lexicon (
	code        TEXT PRIMARY KEY,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id           TEXT PRIMARY KEY,
	dataset      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	rows_synced  BIGINT NOT NULL DEFAULT 0,
	error        TEXT,
	metadata     JSONB,
	started_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_observations_year ON observations(year);
CREATE INDEX IF NOT EXISTS idx_observations_latest ON observations(latest);
CREATE INDEX IF NOT EXISTS idx_statistics_year ON statistics(year);
CREATE INDEX IF NOT EXISTS idx_sync_runs_dataset ON sync_runs(dataset, status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Pool returns the underlying database pool for direct query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

var observationColumns = []string{
	"series_id", "title", "survey", "year", "period", "period_name",
	"value", "latest", "footnotes", "synced_at",
}

func (s *PostgresStore) UpsertObservations(ctx context.Context, obs []model.Observation) (int64, error) {
	rows := make([][]any, len(obs))
	for i, o := range obs {
		rows[i] = []any{
			o.SeriesID, o.Title, o.Survey, o.Year, o.Period, o.PeriodName,
			o.Value, o.Latest, o.Footnotes, o.SyncedAt,
		}
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "observations",
		Columns:      observationColumns,
		ConflictKeys: []string{"series_id", "year", "period"},
	}, rows)
}

func (s *PostgresStore) ListObservations(ctx context.Context, filter model.ObservationFilter) ([]model.Observation, error) {
	query := `SELECT series_id, title, survey, year, period, period_name, value, latest, footnotes, synced_at
		FROM observations WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(filter.SeriesIDs) > 0 {
		query += ` AND series_id = ANY(` + arg(filter.SeriesIDs) + `)`
	}
	if filter.Year > 0 {
		query += ` AND year = ` + arg(filter.Year)
	}
	if filter.LatestOnly {
		query += ` AND latest`
	}
	query += ` ORDER BY series_id, year DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list observations")
	}
	defer rows.Close()

	var obs []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.SeriesID, &o.Title, &o.Survey, &o.Year, &o.Period,
			&o.PeriodName, &o.Value, &o.Latest, &o.Footnotes, &o.SyncedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan observation")
		}
		obs = append(obs, o)
	}
	return obs, eris.Wrap(rows.Err(), "postgres: list observations iterate")
}

func (s *PostgresStore) UpsertStatistics(ctx context.Context, stats []model.Statistic) (int64, error) {
	var n int64
	for _, st := range stats {
		tag, err := s.pool.Exec(ctx, "upsert_statistic",
			st.Name, st.Demographic, st.Value, st.Year, string(st.Source), st.SeriesID, st.ExtractedAt)
		if err != nil {
			return n, eris.Wrapf(err, "postgres: upsert statistic %s", st.Name)
		}
		n += tag.RowsAffected()
	}
	return n, nil
}

func (s *PostgresStore) ListStatistics(ctx context.Context, filter StatisticFilter) ([]model.Statistic, error) {
	query := `SELECT name, demographic, value, year, source, COALESCE(series_id, ''), extracted_at
		FROM statistics WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(filter.Names) > 0 {
		query += ` AND name = ANY(` + arg(filter.Names) + `)`
	}
	if filter.Demographic != "" {
		query += ` AND demographic = ` + arg(filter.Demographic)
	}
	if filter.Year > 0 {
		query += ` AND year = ` + arg(filter.Year)
	}
	if filter.Source != "" {
		query += ` AND source = ` + arg(string(filter.Source))
	}
	query += ` ORDER BY year DESC, name, demographic`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list statistics")
	}
	defer rows.Close()

	var stats []model.Statistic
	for rows.Next() {
		var st model.Statistic
		if err := rows.Scan(&st.Name, &st.Demographic, &st.Value, &st.Year,
			&st.Source, &st.SeriesID, &st.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan statistic")
		}
		stats = append(stats, st)
	}
	return stats, eris.Wrap(rows.Err(), "postgres: list statistics iterate")
}

var demographicColumns = []string{
	"demographic", "day_type", "total_leisure", "sports", "socializing",
	"tv", "reading", "relaxing", "gaming", "other", "year", "source", "extracted_at",
}

func (s *PostgresStore) UpsertDemographics(ctx context.Context, drows []model.DemographicRow) (int64, error) {
	rows := make([][]any, len(drows))
	for i, r := range drows {
		rows[i] = []any{
			r.Demographic, string(r.DayType), r.TotalLeisure, r.Sports, r.Socializing,
			r.TV, r.Reading, r.Relaxing, r.Gaming, r.Other, r.Year, string(r.Source), r.ExtractedAt,
		}
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "demographics",
		Columns:      demographicColumns,
		ConflictKeys: []string{"demographic", "day_type", "year", "source"},
	}, rows)
}

func (s *PostgresStore) ListDemographics(ctx context.Context, filter DemographicFilter) ([]model.DemographicRow, error) {
	query := `SELECT demographic, day_type, total_leisure, sports, socializing, tv, reading, relaxing, gaming, other, year, source, extracted_at
		FROM demographics WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Demographic != "" {
		query += ` AND demographic = ` + arg(filter.Demographic)
	}
	if filter.DayType != "" {
		query += ` AND day_type = ` + arg(string(filter.DayType))
	}
	if filter.Year > 0 {
		query += ` AND year = ` + arg(filter.Year)
	}
	query += ` ORDER BY year DESC, demographic, day_type`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list demographics")
	}
	defer rows.Close()

	var out []model.DemographicRow
	for rows.Next() {
		var r model.DemographicRow
		if err := rows.Scan(&r.Demographic, &r.DayType, &r.TotalLeisure, &r.Sports,
			&r.Socializing, &r.TV, &r.Reading, &r.Relaxing, &r.Gaming, &r.Other,
			&r.Year, &r.Source, &r.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan demographic")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list demographics iterate")
}

func (s *PostgresStore) UpsertLexicon(ctx context.Context, codes []atus.ActivityCode) (int64, error) {
	var n int64
	for _, c := range codes {
		tag, err := s.pool.Exec(ctx, "upsert_lexicon", c.Code, c.Description)
		if err != nil {
			return n, eris.Wrapf(err, "postgres: upsert lexicon code %s", c.Code)
		}
		n += tag.RowsAffected()
	}
	return n, nil
}

func (s *PostgresStore) ListLexicon(ctx context.Context) ([]atus.ActivityCode, error) {
	rows, err := s.pool.Query(ctx, "list_lexicon")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list lexicon")
	}
	defer rows.Close()

	var codes []atus.ActivityCode
	for rows.Next() {
		var c atus.ActivityCode
		if err := rows.Scan(&c.Code, &c.Description); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lexicon code")
		}
		codes = append(codes, c)
	}
	return codes, eris.Wrap(rows.Err(), "postgres: list lexicon iterate")
}

func (s *PostgresStore) StartSync(ctx context.Context, dataset string) (*model.SyncRun, error) {
	run := &model.SyncRun{
		ID:        uuid.New().String(),
		Dataset:   dataset,
		Status:    model.SyncRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx, "insert_sync_run",
		run.ID, run.Dataset, string(run.Status), run.StartedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: start sync %s", dataset)
	}
	return run, nil
}

func (s *PostgresStore) CompleteSync(ctx context.Context, runID string, rowsSynced int64, metadata map[string]any) error {
	metaJSON, err := marshalSyncMetadata(metadata)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, "complete_sync",
		string(model.SyncComplete), rowsSynced, metaJSON, time.Now().UTC(), runID)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete sync %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("sync run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) FailSync(ctx context.Context, runID string, syncErr error) error {
	msg := ""
	if syncErr != nil {
		msg = syncErr.Error()
	}
	tag, err := s.pool.Exec(ctx, "fail_sync",
		string(model.SyncFailed), msg, time.Now().UTC(), runID)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail sync %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("sync run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) LastSuccess(ctx context.Context, dataset string) (*time.Time, error) {
	var completedAt time.Time
	err := s.pool.QueryRow(ctx, "last_success",
		dataset, string(model.SyncComplete)).Scan(&completedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: last success %s", dataset)
	}
	return &completedAt, nil
}

func (s *PostgresStore) LastSyncMetadata(ctx context.Context, dataset string) (map[string]any, error) {
	var metaJSON []byte
	err := s.pool.QueryRow(ctx, "last_metadata",
		dataset, string(model.SyncComplete)).Scan(&metaJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: last sync metadata %s", dataset)
	}
	return unmarshalSyncMetadata(metaJSON)
}

func (s *PostgresStore) ListSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, dataset, status, rows_synced, COALESCE(error, ''), metadata, started_at, completed_at
		 FROM sync_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sync runs")
	}
	defer rows.Close()

	var runs []model.SyncRun
	for rows.Next() {
		var r model.SyncRun
		var metaJSON []byte
		if err := rows.Scan(&r.ID, &r.Dataset, &r.Status, &r.RowsSynced,
			&r.Error, &metaJSON, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan sync run")
		}
		if r.Metadata, err = unmarshalSyncMetadata(metaJSON); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list sync runs iterate")
}
