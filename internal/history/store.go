// Package history persists the commands run from the exec dialog so they can
// be recalled in later sessions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultLimit is how many entries are kept when no limit is configured.
const DefaultLimit = 500

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS exec_history (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	container TEXT    NOT NULL,
	command   TEXT    NOT NULL,
	exit_code INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_exec_history_ts ON exec_history(timestamp);
`

// Entry is one executed command.
type Entry struct {
	Time      time.Time
	Container string
	Command   string
	ExitCode  int
}

// Store is a SQLite-backed exec history. A nil *Store is valid and records
// nothing, so history can be disabled without nil checks at call sites.
type Store struct {
	db    *sql.DB
	path  string
	limit int
}

// DefaultPath returns $XDG_STATE_HOME/opendocker/history.db.
func DefaultPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "state", "opendocker", "history.db")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "opendocker", "history.db")
}

// Open opens (creating if needed) the history database at path. limit bounds
// the number of stored entries; non-positive uses DefaultLimit.
func Open(path string, limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set user_version: %w", err)
	}

	// Commands can contain secrets; keep the file owner-only.
	if err := os.Chmod(path, 0o600); err != nil {
		slog.Warn("failed to set history file permissions", "error", err)
	}

	return &Store{db: db, path: path, limit: limit}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Record appends e and prunes entries beyond the limit.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if s == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exec_history (timestamp, container, command, exit_code) VALUES (?, ?, ?, ?)`,
		e.Time.UnixNano(), e.Container, e.Command, e.ExitCode)
	if err != nil {
		return fmt.Errorf("record exec: %w", err)
	}
	return s.prune(ctx)
}

func (s *Store) prune(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM exec_history WHERE id NOT IN (SELECT id FROM exec_history ORDER BY id DESC LIMIT ?)`,
		s.limit)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, container, command, exit_code FROM exec_history ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&ts, &e.Container, &e.Command, &e.ExitCode); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Time = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Commands returns up to n distinct commands, most recently used first.
func (s *Store) Commands(ctx context.Context, n int) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT command FROM exec_history GROUP BY command ORDER BY MAX(id) DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
