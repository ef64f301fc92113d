// Package history records comparison outcomes in a SQLite database so
// throughput can be tracked across CI runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/Aman-CERP/jmhgate/internal/gate"
)

// Entry is one recorded comparison.
type Entry struct {
	ID         int64     `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Benchmark  string    `json:"benchmark"`
	Metric     string    `json:"metric"`
	Base       float64   `json:"base"`
	PR         float64   `json:"pr"`
	Ratio      float64   `json:"ratio"`
	Threshold  float64   `json:"threshold"`
	Mode       string    `json:"mode"`
	Passed     bool      `json:"passed"`
	BaseFile   string    `json:"base_file"`
	PRFile     string    `json:"pr_file"`
}

// FromReport converts a rendered report into a history entry.
func FromReport(r gate.Report, at time.Time) Entry {
	return Entry{
		RecordedAt: at.UTC(),
		Benchmark:  r.Benchmark,
		Metric:     string(r.Comparison.Metric),
		Base:       r.Comparison.Base,
		PR:         r.Comparison.PR,
		Ratio:      r.Comparison.Ratio,
		Threshold:  r.Verdict.Threshold,
		Mode:       string(r.Verdict.Mode),
		Passed:     r.Verdict.Passed,
		BaseFile:   r.BaseFile,
		PRFile:     r.PRFile,
	}
}

// Store is a SQLite-backed comparison history.
type Store struct {
	db   *sql.DB
	lock *writeLock
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// Single writer to prevent lock contention
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, lock: newWriteLock(path)}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS comparisons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		benchmark TEXT NOT NULL,
		metric TEXT NOT NULL,
		base_value REAL NOT NULL,
		pr_value REAL NOT NULL,
		ratio REAL NOT NULL,
		threshold REAL NOT NULL,
		mode TEXT NOT NULL,
		passed INTEGER NOT NULL,
		base_file TEXT NOT NULL DEFAULT '',
		pr_file TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_comparisons_benchmark ON comparisons(benchmark, id DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends e and returns its id. Writers from other processes are
// excluded for the duration of the insert.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if err := s.lock.lock(ctx); err != nil {
		return 0, err
	}
	defer func() { _ = s.lock.unlock() }()

	passed := 0
	if e.Passed {
		passed = 1
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comparisons (recorded_at, benchmark, metric, base_value, pr_value,
			ratio, threshold, mode, passed, base_file, pr_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.RecordedAt.UTC().Format(time.RFC3339Nano), e.Benchmark, e.Metric, e.Base, e.PR,
		e.Ratio, e.Threshold, e.Mode, passed, e.BaseFile, e.PRFile)
	if err != nil {
		return 0, fmt.Errorf("insert comparison: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first. An empty benchmark
// matches all benchmarks.
func (s *Store) Recent(ctx context.Context, benchmark string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, benchmark, metric, base_value, pr_value, ratio,
			threshold, mode, passed, base_file, pr_file
		FROM comparisons
		WHERE ? = '' OR benchmark = ?
		ORDER BY id DESC
		LIMIT ?
	`, benchmark, benchmark, limit)
	if err != nil {
		return nil, fmt.Errorf("query comparisons: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			recorded string
			passed   int64
		)
		if err := rows.Scan(&e.ID, &recorded, &e.Benchmark, &e.Metric, &e.Base, &e.PR,
			&e.Ratio, &e.Threshold, &e.Mode, &passed, &e.BaseFile, &e.PRFile); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recorded, err)
		}
		e.Passed = passed != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
