// Package journal persists one row per orchestration run so past plans
// and outcomes can be inspected after the fact.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is the persisted record of one orchestration run. Plan and
// Outcomes hold the JSON the pipeline produced, verbatim.
type Run struct {
	ID         string
	Channel    string
	Request    string
	Plan       string
	Outcomes   string
	Answer     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store is a SQLite-backed run journal.
type Store struct {
	db *sql.DB
}

// Open creates or opens the journal database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		channel TEXT,
		request TEXT NOT NULL,
		plan TEXT,
		outcomes TEXT,
		answer TEXT,
		error TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one finished run.
func (s *Store) Record(ctx context.Context, run Run) error {
	query := `
		INSERT INTO runs (id, channel, request, plan, outcomes, answer, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Channel,
		run.Request,
		run.Plan,
		run.Outcomes,
		run.Answer,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, channel, request, plan, outcomes, answer, error, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var run Run
		var channel, plan, outcomes, answer, errMsg sql.NullString
		if err := rows.Scan(&run.ID, &channel, &run.Request, &plan, &outcomes, &answer, &errMsg, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Channel = channel.String
		run.Plan = plan.String
		run.Outcomes = outcomes.String
		run.Answer = answer.String
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
