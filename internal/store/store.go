// Package store provides SQLite-backed persistence for command history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fentz26/blockshell/internal/history"
)

// Store persists command history across runs.
type Store struct {
	db *sql.DB
}

// New creates a Store at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		working_directory TEXT NOT NULL,
		exit_code INTEGER,
		duration_ms INTEGER,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_command ON history(command);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveEntry inserts a history entry and returns its row id.
func (s *Store) SaveEntry(e *history.Entry) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO history (id, command, working_directory, created_at) VALUES (?, ?, ?, ?)`,
		id, e.Command, e.WorkingDirectory, e.Timestamp.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert history entry: %w", err)
	}
	return id, nil
}

// CompleteEntry stamps the exit code and duration on a saved entry.
// Completion is final: an entry already completed is left untouched.
func (s *Store) CompleteEntry(id string, exitCode int, duration time.Duration) error {
	_, err := s.db.Exec(
		`UPDATE history SET exit_code = ?, duration_ms = ? WHERE id = ? AND exit_code IS NULL`,
		exitCode, duration.Milliseconds(), id,
	)
	if err != nil {
		return fmt.Errorf("complete history entry: %w", err)
	}
	return nil
}

// RecentEntries returns up to n entries, oldest first, suitable for
// re-seeding an in-memory ring at startup.
func (s *Store) RecentEntries(n int) ([]*history.Entry, error) {
	rows, err := s.db.Query(
		`SELECT command, working_directory, exit_code, duration_ms, created_at
		 FROM (SELECT *, rowid AS rid FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?)
		 ORDER BY created_at ASC, rid ASC`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// SearchEntries returns entries whose command contains the query, oldest
// first.
func (s *Store) SearchEntries(query string) ([]*history.Entry, error) {
	rows, err := s.db.Query(
		`SELECT command, working_directory, exit_code, duration_ms, created_at
		 FROM history WHERE command LIKE ? ORDER BY created_at ASC, rowid ASC`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]*history.Entry, error) {
	var entries []*history.Entry
	for rows.Next() {
		var (
			e        history.Entry
			exitCode sql.NullInt64
			duration sql.NullInt64
			created  time.Time
		)
		if err := rows.Scan(&e.Command, &e.WorkingDirectory, &exitCode, &duration, &created); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Timestamp = created
		if exitCode.Valid {
			d := time.Duration(duration.Int64) * time.Millisecond
			e.SetResult(int(exitCode.Int64), d)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

// Prune drops the oldest rows beyond keep.
func (s *Store) Prune(keep int) error {
	_, err := s.db.Exec(
		`DELETE FROM history WHERE id NOT IN
		 (SELECT id FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}
