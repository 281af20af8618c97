package bench

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrStoreClosed is returned when using a closed store.
var ErrStoreClosed = errors.New("bench store is closed")

// Store persists bench run history to SQLite, so runs against the same
// target can be compared over time.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewStore opens (creating if needed) a run-history database. The path may
// be a file path or ":memory:" for testing.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bench_runs (
			run_id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			started_at TEXT NOT NULL,
			elapsed_ms REAL NOT NULL,
			requests INTEGER NOT NULL,
			workers INTEGER NOT NULL,
			successful INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			throughput REAL NOT NULL,
			avg_ms REAL NOT NULL,
			min_ms REAL NOT NULL,
			max_ms REAL NOT NULL,
			p50_ms REAL NOT NULL,
			p95_ms REAL NOT NULL,
			p99_ms REAL NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bench_runs_started_at
		ON bench_runs(started_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Store{db: db}, nil
}

// Save records one completed run.
func (s *Store) Save(result *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO bench_runs (
			run_id, scenario, started_at, elapsed_ms,
			requests, workers, successful, failed,
			throughput, avg_ms, min_ms, max_ms, p50_ms, p95_ms, p99_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.RunID,
		result.Scenario.Name,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		float64(result.Elapsed)/float64(time.Millisecond),
		result.Scenario.Requests,
		result.Scenario.Workers,
		result.Successful,
		result.Failed,
		result.Stats.Throughput,
		result.Stats.Avg,
		result.Stats.Min,
		result.Stats.Max,
		result.Stats.P50,
		result.Stats.P95,
		result.Stats.P99,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// RunInfo is one recorded run.
type RunInfo struct {
	RunID      string
	Scenario   string
	StartedAt  time.Time
	Successful int
	Failed     int
	Throughput float64
	P95        float64
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT run_id, scenario, started_at, successful, failed, throughput, p95_ms
		FROM bench_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var startedAt string
		if err := rows.Scan(&info.RunID, &info.Scenario, &startedAt,
			&info.Successful, &info.Failed, &info.Throughput, &info.P95); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		info.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return infos, nil
}

// Close releases the database. Safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
