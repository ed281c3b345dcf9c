package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/yingtu35/link-sentry/internal/report"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a run ID is not in the store.
var ErrNotFound = errors.New("run not found")

const dbFile = "history.db"

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one stored link check.
type Run struct {
	ID         string
	Target     string
	StartedAt  time.Time
	Duration   time.Duration
	Working    int
	Broken     int
	Total      int
	ReportJSON string
}

// Store keeps past runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database inside dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		working INTEGER NOT NULL,
		broken INTEGER NOT NULL,
		total INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target, started_at);
	`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewRun builds a Run for r with a fresh ID.
func NewRun(target string, startedAt time.Time, duration time.Duration, r *report.Report) (*Run, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}
	return &Run{
		ID:         uuid.NewString(),
		Target:     target,
		StartedAt:  startedAt.UTC(),
		Duration:   duration,
		Working:    len(r.Working),
		Broken:     len(r.Broken),
		Total:      r.Total,
		ReportJSON: string(data),
	}, nil
}

// Save stores run.
func (s *Store) Save(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO runs (id, target, started_at, duration_ms, working, broken, total, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Target, run.StartedAt.UTC().Format(timeLayout), run.Duration.Milliseconds(),
		run.Working, run.Broken, run.Total, run.ReportJSON,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. An empty target lists
// runs of every target. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, target string, limit int) ([]Run, error) {
	query := `SELECT id, target, started_at, duration_ms, working, broken, total, report_json FROM runs`
	var args []any
	if target != "" {
		query += ` WHERE target = ?`
		args = append(args, target)
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Get returns the run with id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, target, started_at, duration_ms, working, broken, total, report_json FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// Report decodes the stored report.
func (r *Run) Report() (*report.Report, error) {
	var rep report.Report
	if err := json.Unmarshal([]byte(r.ReportJSON), &rep); err != nil {
		return nil, fmt.Errorf("decode report of run %s: %w", r.ID, err)
	}
	return &rep, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run        Run
		startedAt  string
		durationMs int64
	)
	if err := sc.Scan(&run.ID, &run.Target, &startedAt, &durationMs, &run.Working, &run.Broken, &run.Total, &run.ReportJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	t, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
	}
	run.StartedAt = t
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}
