// Package store persists run history in a local SQLite database. The
// pipeline never reads from it; it exists for provenance and auditing.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/appaudit/playmeta/internal/catalog"
	"github.com/appaudit/playmeta/internal/sheet"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	input_path  TEXT NOT NULL,
	output_path TEXT NOT NULL,
	total       INTEGER NOT NULL,
	fetched     INTEGER NOT NULL,
	not_found   INTEGER NOT NULL,
	skipped     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_records (
	run_id             TEXT NOT NULL REFERENCES runs(id),
	position           INTEGER NOT NULL,
	application_name   TEXT NOT NULL,
	application_id     TEXT NOT NULL,
	friendly_name      TEXT NOT NULL,
	description        TEXT NOT NULL,
	category           TEXT NOT NULL,
	content_rating     TEXT NOT NULL,
	application_rating TEXT NOT NULL,
	pricing            TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// Run is the persisted summary of one pipeline invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	InputPath  string
	OutputPath string
	Total      int
	Fetched    int
	NotFound   int
	Skipped    int
}

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts the run summary and its records in one transaction. The
// record rows store the same collapsed cells the CSV output carries.
func (s *Store) SaveRun(ctx context.Context, run Run, results []catalog.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_path, output_path, total, fetched, not_found, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.InputPath,
		run.OutputPath,
		run.Total,
		run.Fetched,
		run.NotFound,
		run.Skipped,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i, res := range results {
		row := sheet.Row(res)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_records (run_id, position, application_name, application_id,
			 friendly_name, description, category, content_rating, application_rating, pricing)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7],
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input_path, output_path, total, fetched, not_found, skipped
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		if err := rows.Scan(&run.ID, &startedAt, &run.InputPath, &run.OutputPath,
			&run.Total, &run.Fetched, &run.NotFound, &run.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
