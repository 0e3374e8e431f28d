package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Current schema version
const SchemaVersion = "1"

// memoryDSN opens a private in-memory database. It lives as long as its
// single connection, so the pool is pinned to one connection below.
const memoryDSN = ":memory:"

// SQLite is a SQLite-backed store held entirely in memory.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new in-memory SQLite store.
func NewSQLite() (*SQLite, error) {
	db, err := sql.Open(driverName, memoryDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tape (
			id TEXT PRIMARY KEY,
			session TEXT NOT NULL,
			expression TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS tape_session ON tape (session, id);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Append records an entry.
func (s *SQLite) Append(ctx context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e = prepare(e)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tape (id, session, expression, result, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Session, e.Expression, e.Result, e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, fmt.Errorf("append tape entry: %w", err)
	}
	return e, nil
}

// History returns a session's entries newest first.
func (s *SQLite) History(ctx context.Context, session string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session, expression, result, created_at
		FROM tape WHERE session = ?
		ORDER BY id DESC LIMIT ?
	`, session, limit)
	if err != nil {
		return nil, fmt.Errorf("query tape: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &e.Session, &e.Expression, &e.Result, &ts); err != nil {
			return nil, err
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q for entry %s: %w", ts, e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Trim keeps only the newest keep entries of a session.
func (s *SQLite) Trim(ctx context.Context, session string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM tape WHERE session = ? AND id NOT IN (
			SELECT id FROM tape WHERE session = ? ORDER BY id DESC LIMIT ?
		)
	`, session, session, keep)
	return err
}

// Clear removes every entry of a session.
func (s *SQLite) Clear(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM tape WHERE session = ?", session)
	return err
}

// Close closes the database connection. The tape is gone afterwards.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataUnlocked(key, value)
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
