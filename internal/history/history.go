// Package history keeps a local record of reconciliation runs in SQLite,
// so repeated batch runs can be compared over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	transactions INTEGER NOT NULL,
	credit_transactions INTEGER NOT NULL,
	matched INTEGER NOT NULL,
	commission_mismatches INTEGER NOT NULL,
	validation_errors INTEGER NOT NULL
);
`

// Run is one recorded reconciliation run.
type Run struct {
	ID                   string
	StartedAt            time.Time
	FinishedAt           time.Time
	Transactions         int
	CreditTransactions   int
	Matched              int
	CommissionMismatches int
	ValidationErrors     int
}

// Store is the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one run.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, transactions,
			credit_transactions, matched, commission_mismatches, validation_errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Transactions,
		run.CreditTransactions,
		run.Matched,
		run.CommissionMismatches,
		run.ValidationErrors,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns all recorded runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, transactions, credit_transactions,
			matched, commission_mismatches, validation_errors
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Transactions,
			&r.CreditTransactions, &r.Matched, &r.CommissionMismatches, &r.ValidationErrors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
