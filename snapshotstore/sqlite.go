package snapshotstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a SQLite-backed Store.
//
// Designed for a single host process that wants its consumer snapshots to
// survive a restart, with zero external setup. Uses WAL mode so a reader
// (e.g. an operator inspecting the file) doesn't block the writer.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (creating if absent) a SQLite database at path and
// ensures its schema exists. path may be ":memory:" for a throwaway store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshotstore: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshotstore: set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS vertex_snapshots (
			vertex_type TEXT NOT NULL,
			vertex_name TEXT NOT NULL,
			payload     BLOB NOT NULL,
			updated_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (vertex_type, vertex_name)
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("snapshotstore: create vertex_snapshots table: %w", err)
	}
	return nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, key Key, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const stmt = `
		INSERT INTO vertex_snapshots (vertex_type, vertex_name, payload, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (vertex_type, vertex_name)
		DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, stmt, key.Type, key.Name, payload)
	if err != nil {
		return fmt.Errorf("snapshotstore: save %s:%s: %w", key.Type, key.Name, err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	const q = `SELECT payload FROM vertex_snapshots WHERE vertex_type = ? AND vertex_name = ?`
	var payload []byte
	err := s.db.QueryRowContext(ctx, q, key.Type, key.Name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: load %s:%s: %w", key.Type, key.Name, err)
	}
	return payload, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const stmt = `DELETE FROM vertex_snapshots WHERE vertex_type = ? AND vertex_name = ?`
	if _, err := s.db.ExecContext(ctx, stmt, key.Type, key.Name); err != nil {
		return fmt.Errorf("snapshotstore: delete %s:%s: %w", key.Type, key.Name, err)
	}
	return nil
}

// Close implements Store. Safe to call multiple times.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
