// Package history persists a record of completed analysis runs in a
// SQLite database so the CLI can show what was scanned and when.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/treescout/internal/analyzer"
)

//go:embed schema.sql
var schemaSQL string

// RunRecord is a single persisted analysis run
type RunRecord struct {
	ID           int64
	RunID        string
	Root         string
	Status       string
	Dirs         int
	Files        int
	Comments     int
	Excluded     int
	Errors       int
	ErrorMessage string
	StartedAt    time.Time
	Duration     time.Duration
}

// Store manages the SQLite run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	// Handle in-memory database
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	// Ensure parent directory exists for file-based databases
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure SQLite for concurrent access. Set busy_timeout FIRST so
	// subsequent operations wait on locks instead of failing immediately.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		// Only retry on "database is locked" errors
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordResult stores a finished run. Cancelled runs are recorded too;
// their counters reflect the partial scan.
func (s *Store) RecordResult(ctx context.Context, res *analyzer.Result) (*RunRecord, error) {
	rec := &RunRecord{
		RunID:     res.RunID,
		Root:      res.Root,
		Status:    res.Status.String(),
		Dirs:      res.Stats.Dirs,
		Files:     res.Stats.Files,
		Comments:  res.Stats.Comments,
		Excluded:  res.Stats.Excluded,
		Errors:    res.Stats.Errors,
		StartedAt: res.StartedAt,
		Duration:  res.Duration,
	}
	if res.Err != nil {
		rec.ErrorMessage = res.Err.Error()
	}

	query := `INSERT INTO analysis_runs
		(run_id, root, status, dirs, files, comments, excluded, errors, error_message, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		rec.RunID,
		rec.Root,
		rec.Status,
		rec.Dirs,
		rec.Files,
		rec.Comments,
		rec.Excluded,
		rec.Errors,
		rec.ErrorMessage,
		rec.StartedAt,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert analysis run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	rec.ID = id

	return rec, nil
}

// RecentRuns retrieves the most recent runs for a root, newest first.
// An empty root matches all roots.
func (s *Store) RecentRuns(ctx context.Context, root string, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, run_id, root, status, dirs, files, comments, excluded, errors, error_message, started_at, duration_ms
		FROM analysis_runs`
	args := []interface{}{}
	if root != "" {
		query += ` WHERE root = ?`
		args = append(args, root)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec := &RunRecord{}
		var errMsg sql.NullString
		var durationMS int64
		err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Root,
			&rec.Status,
			&rec.Dirs,
			&rec.Files,
			&rec.Comments,
			&rec.Excluded,
			&rec.Errors,
			&errMsg,
			&rec.StartedAt,
			&durationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		if errMsg.Valid {
			rec.ErrorMessage = errMsg.String
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Prune deletes all but the newest keep runs per root. A keep of zero
// or less leaves the history untouched.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	query := `DELETE FROM analysis_runs WHERE id NOT IN (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY root ORDER BY started_at DESC, id DESC) AS rn
			FROM analysis_runs
		) WHERE rn <= ?
	)`

	result, err := s.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("prune analysis runs: %w", err)
	}
	return result.RowsAffected()
}
