package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS observations (
	series_id   TEXT NOT NULL,
	title       TEXT,
	survey      TEXT,
	year        INTEGER NOT NULL,
	period      TEXT NOT NULL,
	period_name TEXT,
	value       REAL NOT NULL,
	latest      INTEGER NOT NULL DEFAULT 0,
	footnotes   TEXT,
	synced_at   DATETIME NOT NULL,
	PRIMARY KEY (series_id, year, period)
);

CREATE TABLE IF NOT EXISTS statistics (
	name         TEXT NOT NULL,
	demographic  TEXT NOT NULL,
	value        REAL NOT NULL,
	year         INTEGER NOT NULL,
	source       TEXT NOT NULL,
	series_id    TEXT,
	extracted_at DATETIME NOT NULL,
	PRIMARY KEY (name, demographic, year, source)
);

CREATE TABLE IF NOT EXISTS demographics (
	demographic   TEXT NOT NULL,
	day_type      TEXT NOT NULL,
	total_leisure REAL NOT NULL,
	sports        REAL NOT NULL,
	socializing   REAL NOT NULL,
	tv            REAL NOT NULL,
	reading       REAL NOT NULL,
	relaxing      REAL NOT NULL,
	gaming        REAL NOT NULL,
	other         REAL NOT NULL,
	year          INTEGER NOT NULL,
	source        TEXT NOT NULL,
	extracted_at  DATETIME NOT NULL,
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
	rows_synced  INTEGER NOT NULL DEFAULT 0,
	error        TEXT,
	metadata     TEXT,
	started_at   DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_observations_year ON observations(year);
CREATE INDEX IF NOT EXISTS idx_observations_latest ON observations(latest);
CREATE INDEX IF NOT EXISTS idx_statistics_year ON statistics(year);
CREATE INDEX IF NOT EXISTS idx_sync_runs_dataset ON sync_runs(dataset, status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertObservations(ctx context.Context, obs []model.Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (series_id, title, survey, year, period, period_name, value, latest, footnotes, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (series_id, year, period) DO UPDATE SET
			title = excluded.title, survey = excluded.survey,
			period_name = excluded.period_name, value = excluded.value,
			latest = excluded.latest, footnotes = excluded.footnotes,
			synced_at = excluded.synced_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert observation")
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx,
			o.SeriesID, o.Title, o.Survey, o.Year, o.Period, o.PeriodName,
			o.Value, o.Latest, o.Footnotes, o.SyncedAt,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert observation %s/%d", o.SeriesID, o.Year)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit observations")
	}
	return int64(len(obs)), nil
}

func (s *SQLiteStore) ListObservations(ctx context.Context, filter model.ObservationFilter) ([]model.Observation, error) {
	query := `SELECT series_id, title, survey, year, period, period_name, value, latest, footnotes, synced_at
		FROM observations WHERE 1=1`
	var args []any

	if len(filter.SeriesIDs) > 0 {
		query += ` AND series_id IN (`
		for i, id := range filter.SeriesIDs {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, id)
		}
		query += `)`
	}
	if filter.Year > 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	if filter.LatestOnly {
		query += ` AND latest = 1`
	}
	query += ` ORDER BY series_id, year DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list observations")
	}
	defer rows.Close()

	var obs []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.SeriesID, &o.Title, &o.Survey, &o.Year, &o.Period,
			&o.PeriodName, &o.Value, &o.Latest, &o.Footnotes, &o.SyncedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan observation")
		}
		obs = append(obs, o)
	}
	return obs, eris.Wrap(rows.Err(), "sqlite: list observations iterate")
}

func (s *SQLiteStore) UpsertStatistics(ctx context.Context, stats []model.Statistic) (int64, error) {
	if len(stats) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO statistics (name, demographic, value, year, source, series_id, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, demographic, year, source) DO UPDATE SET
			value = excluded.value, series_id = excluded.series_id,
			extracted_at = excluded.extracted_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert statistic")
	}
	defer stmt.Close()

	for _, st := range stats {
		if _, err := stmt.ExecContext(ctx,
			st.Name, st.Demographic, st.Value, st.Year, string(st.Source), st.SeriesID, st.ExtractedAt,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert statistic %s", st.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit statistics")
	}
	return int64(len(stats)), nil
}

func (s *SQLiteStore) ListStatistics(ctx context.Context, filter StatisticFilter) ([]model.Statistic, error) {
	query := `SELECT name, demographic, value, year, source, series_id, extracted_at
		FROM statistics WHERE 1=1`
	var args []any

	if len(filter.Names) > 0 {
		query += ` AND name IN (`
		for i, name := range filter.Names {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, name)
		}
		query += `)`
	}
	if filter.Demographic != "" {
		query += ` AND demographic = ?`
		args = append(args, filter.Demographic)
	}
	if filter.Year > 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}
	query += ` ORDER BY year DESC, name, demographic`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list statistics")
	}
	defer rows.Close()

	var stats []model.Statistic
	for rows.Next() {
		var st model.Statistic
		var seriesID sql.NullString
		if err := rows.Scan(&st.Name, &st.Demographic, &st.Value, &st.Year,
			&st.Source, &seriesID, &st.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan statistic")
		}
		st.SeriesID = seriesID.String
		stats = append(stats, st)
	}
	return stats, eris.Wrap(rows.Err(), "sqlite: list statistics iterate")
}

func (s *SQLiteStore) UpsertDemographics(ctx context.Context, drows []model.DemographicRow) (int64, error) {
	if len(drows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO demographics (demographic, day_type, total_leisure, sports, socializing, tv, reading, relaxing, gaming, other, year, source, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (demographic, day_type, year, source) DO UPDATE SET
			total_leisure = excluded.total_leisure, sports = excluded.sports,
			socializing = excluded.socializing, tv = excluded.tv,
			reading = excluded.reading, relaxing = excluded.relaxing,
			gaming = excluded.gaming, other = excluded.other,
			extracted_at = excluded.extracted_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert demographic")
	}
	defer stmt.Close()

	for _, r := range drows {
		if _, err := stmt.ExecContext(ctx,
			r.Demographic, string(r.DayType), r.TotalLeisure, r.Sports, r.Socializing,
			r.TV, r.Reading, r.Relaxing, r.Gaming, r.Other, r.Year, string(r.Source), r.ExtractedAt,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert demographic %s", r.Demographic)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit demographics")
	}
	return int64(len(drows)), nil
}

func (s *SQLiteStore) ListDemographics(ctx context.Context, filter DemographicFilter) ([]model.DemographicRow, error) {
	query := `SELECT demographic, day_type, total_leisure, sports, socializing, tv, reading, relaxing, gaming, other, year, source, extracted_at
		FROM demographics WHERE 1=1`
	var args []any

	if filter.Demographic != "" {
		query += ` AND demographic = ?`
		args = append(args, filter.Demographic)
	}
	if filter.DayType != "" {
		query += ` AND day_type = ?`
		args = append(args, string(filter.DayType))
	}
	if filter.Year > 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	query += ` ORDER BY year DESC, demographic, day_type`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list demographics")
	}
	defer rows.Close()

	var out []model.DemographicRow
	for rows.Next() {
		var r model.DemographicRow
		if err := rows.Scan(&r.Demographic, &r.DayType, &r.TotalLeisure, &r.Sports,
			&r.Socializing, &r.TV, &r.Reading, &r.Relaxing, &r.Gaming, &r.Other,
			&r.Year, &r.Source, &r.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan demographic")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list demographics iterate")
}

func (s *SQLiteStore) UpsertLexicon(ctx context.Context, codes []atus.ActivityCode) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lexicon (code, description) VALUES (?, ?)
		ON CONFLICT (code) DO UPDATE SET description = excluded.description`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert lexicon")
	}
	defer stmt.Close()

	for _, c := range codes {
		if _, err := stmt.ExecContext(ctx, c.Code, c.Description); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert lexicon code %s", c.Code)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit lexicon")
	}
	return int64(len(codes)), nil
}

func (s *SQLiteStore) ListLexicon(ctx context.Context) ([]atus.ActivityCode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, description FROM lexicon ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list lexicon")
	}
	defer rows.Close()

	var codes []atus.ActivityCode
	for rows.Next() {
		var c atus.ActivityCode
		if err := rows.Scan(&c.Code, &c.Description); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lexicon code")
		}
		codes = append(codes, c)
	}
	return codes, eris.Wrap(rows.Err(), "sqlite: list lexicon iterate")
}

func (s *SQLiteStore) StartSync(ctx context.Context, dataset string) (*model.SyncRun, error) {
	run := &model.SyncRun{
		ID:        uuid.New().String(),
		Dataset:   dataset,
		Status:    model.SyncRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, dataset, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Dataset, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: start sync %s", dataset)
	}
	return run, nil
}

func (s *SQLiteStore) CompleteSync(ctx context.Context, runID string, rowsSynced int64, metadata map[string]any) error {
	metaJSON, err := marshalSyncMetadata(metadata)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET status = ?, rows_synced = ?, metadata = ?, completed_at = ? WHERE id = ?`,
		string(model.SyncComplete), rowsSynced, metaJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete sync %s", runID)
	}
	return checkRowsAffected(res, "sync run", runID)
}

func (s *SQLiteStore) FailSync(ctx context.Context, runID string, syncErr error) error {
	msg := ""
	if syncErr != nil {
		msg = syncErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(model.SyncFailed), msg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail sync %s", runID)
	}
	return checkRowsAffected(res, "sync run", runID)
}

func (s *SQLiteStore) LastSuccess(ctx context.Context, dataset string) (*time.Time, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT completed_at FROM sync_runs
		 WHERE dataset = ? AND status = ?
		 ORDER BY completed_at DESC LIMIT 1`,
		dataset, string(model.SyncComplete),
	)

	var completedAt time.Time
	err := row.Scan(&completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: last success %s", dataset)
	}
	return &completedAt, nil
}

func (s *SQLiteStore) LastSyncMetadata(ctx context.Context, dataset string) (map[string]any, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT metadata FROM sync_runs
		 WHERE dataset = ? AND status = ?
		 ORDER BY completed_at DESC LIMIT 1`,
		dataset, string(model.SyncComplete),
	)

	var metaJSON sql.NullString
	err := row.Scan(&metaJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: last sync metadata %s", dataset)
	}
	return unmarshalSyncMetadata([]byte(metaJSON.String))
}

func (s *SQLiteStore) ListSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dataset, status, rows_synced, error, metadata, started_at, completed_at
		 FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sync runs")
	}
	defer rows.Close()

	var runs []model.SyncRun
	for rows.Next() {
		var r model.SyncRun
		var errMsg, metaJSON sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Dataset, &r.Status, &r.RowsSynced,
			&errMsg, &metaJSON, &r.StartedAt, &completedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sync run")
		}
		r.Error = errMsg.String
		if completedAt.Valid {
			t := completedAt.Time
			r.CompletedAt = &t
		}
		if r.Metadata, err = unmarshalSyncMetadata([]byte(metaJSON.String)); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list sync runs iterate")
}

// checkRowsAffected verifies an UPDATE touched its target row.
func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
