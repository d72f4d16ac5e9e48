// Package audit records import run history in Postgres. It is entirely
// optional: the CLI only touches it when an audit database URL is
// configured, and a failure to record a run never fails the run.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts a pgx connection, pool, or transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS import_runs (
    run_id      UUID PRIMARY KEY,
    source      TEXT NOT NULL,
    data_lines  INTEGER NOT NULL,
    created     INTEGER NOT NULL,
    rejected    INTEGER NOT NULL,
    duration_ms BIGINT NOT NULL,
    started_at  TIMESTAMPTZ NOT NULL
)`

// Run is one recorded import run.
type Run struct {
	RunID     string
	Source    string
	DataLines int
	Created   int
	Rejected  int
	Duration  time.Duration
	StartedAt time.Time
}

// Service reads and writes the run history.
type Service struct {
	db DBTX
}

// New returns a Service over the given connection.
func New(db DBTX) *Service {
	return &Service{db: db}
}

// EnsureSchema creates the run history table when it does not exist.
func (s *Service) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("creating import_runs table: %w", err)
	}
	return nil
}

// RecordRun inserts one run.
func (s *Service) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO import_runs (run_id, source, data_lines, created, rejected, duration_ms, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.RunID, run.Source, run.DataLines, run.Created, run.Rejected,
		run.Duration.Milliseconds(), run.StartedAt)
	if err != nil {
		return fmt.Errorf("recording import run %s: %w", run.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.Query(ctx,
		`SELECT run_id, source, data_lines, created, rejected, duration_ms, started_at
		 FROM import_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMs int64
		if err := rows.Scan(&run.RunID, &run.Source, &run.DataLines,
			&run.Created, &run.Rejected, &durationMs, &run.StartedAt); err != nil {
			return nil, fmt.Errorf("scanning import run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
