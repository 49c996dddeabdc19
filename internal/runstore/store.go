// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runstore keeps a SQLite history of conversion runs and the events
// each run accepted. The converter uses it to drop events that an earlier
// run already wrote.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/eventcsv/pkg/types"
)

// DefaultLimit caps Runs when no limit is given.
const DefaultLimit = 20

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating its parent
// directory and schema when needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			json_path TEXT NOT NULL,
			csv_path TEXT NOT NULL,
			written INTEGER NOT NULL,
			lines_read INTEGER NOT NULL,
			dropped_no_mapping INTEGER NOT NULL,
			dropped_duplicate INTEGER NOT NULL,
			unique_users INTEGER NOT NULL,
			unique_files INTEGER NOT NULL,
			start_date TEXT,
			end_date TEXT,
			actions_add INTEGER NOT NULL,
			actions_remove INTEGER NOT NULL,
			actions_accessed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT NOT NULL,
			id_numeric INTEGER NOT NULL DEFAULT 0,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			timestamp TEXT NOT NULL,
			action TEXT NOT NULL,
			user TEXT,
			folder TEXT,
			file_name TEXT,
			ip TEXT,
			PRIMARY KEY (event_id, id_numeric)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// KnownEventIDs returns every event ID recorded by earlier runs.
func (s *Store) KnownEventIDs(ctx context.Context) (map[types.EventKey]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT event_id, id_numeric FROM events`)
	if err != nil {
		return nil, fmt.Errorf("querying event IDs: %w", err)
	}
	defer rows.Close()

	known := make(map[types.EventKey]bool)
	for rows.Next() {
		var key types.EventKey
		if err := rows.Scan(&key.ID, &key.Numeric); err != nil {
			return nil, fmt.Errorf("scanning event ID: %w", err)
		}
		known[key] = true
	}
	return known, rows.Err()
}

// Record stores the run and its rows in a single transaction and returns
// the new run ID.
func (s *Store) Record(ctx context.Context, run types.Run, rows []types.Row) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	r := run.Report
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, json_path, csv_path, written, lines_read,
			dropped_no_mapping, dropped_duplicate, unique_users, unique_files,
			start_date, end_date, actions_add, actions_remove, actions_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.JSONPath, run.CSVPath, run.Written, r.LinesRead,
		r.DroppedEvents.NoActionMapping, r.DroppedEvents.Duplicate, r.UniqueUsers, r.UniqueFiles,
		r.StartDate, r.EndDate, r.Actions.Add, r.Actions.Remove, r.Actions.Accessed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (event_id, id_numeric, run_id, timestamp, action, user, folder, file_name, ip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.EventID, row.IDNumeric, runID, row.Timestamp, string(row.Action),
			row.User, row.Folder, row.FileName, row.IP); err != nil {
			return 0, fmt.Errorf("inserting event %s: %w", row.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first. A non-positive limit
// uses DefaultLimit.
func (s *Store) Runs(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, json_path, csv_path, written, lines_read,
			dropped_no_mapping, dropped_duplicate, unique_users, unique_files,
			COALESCE(start_date, ''), COALESCE(end_date, ''),
			actions_add, actions_remove, actions_accessed
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var (
			run     types.Run
			started string
		)
		r := &run.Report
		if err := rows.Scan(&run.ID, &started, &run.JSONPath, &run.CSVPath, &run.Written, &r.LinesRead,
			&r.DroppedEvents.NoActionMapping, &r.DroppedEvents.Duplicate, &r.UniqueUsers, &r.UniqueFiles,
			&r.StartDate, &r.EndDate, &r.Actions.Add, &r.Actions.Remove, &r.Actions.Accessed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %d: %w", run.ID, err)
		}
		r.DroppedEventsCounts = r.DroppedEvents.Total()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
