package snapshotstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB-backed Store.
//
// Designed for multi-process consumer deployments where every process
// needs a consistent view of the latest snapshot for a vertex, unlike
// SQLiteStore's single-writer file.
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewMySQLStore opens a connection pool against dsn and ensures its schema
// exists. The DSN format matches github.com/go-sql-driver/mysql, e.g.
// "user:pass@tcp(localhost:3306)/dbname?parseTime=true".
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshotstore: ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS vertex_snapshots (
			vertex_type VARCHAR(255) NOT NULL,
			vertex_name VARCHAR(255) NOT NULL,
			payload     LONGBLOB NOT NULL,
			updated_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (vertex_type, vertex_name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("snapshotstore: create vertex_snapshots table: %w", err)
	}
	return nil
}

// Save implements Store.
func (s *MySQLStore) Save(ctx context.Context, key Key, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const stmt = `
		INSERT INTO vertex_snapshots (vertex_type, vertex_name, payload)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload)
	`
	if _, err := s.db.ExecContext(ctx, stmt, key.Type, key.Name, payload); err != nil {
		return fmt.Errorf("snapshotstore: save %s:%s: %w", key.Type, key.Name, err)
	}
	return nil
}

// Load implements Store.
func (s *MySQLStore) Load(ctx context.Context, key Key) ([]byte, error) {
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
func (s *MySQLStore) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const stmt = `DELETE FROM vertex_snapshots WHERE vertex_type = ? AND vertex_name = ?`
	if _, err := s.db.ExecContext(ctx, stmt, key.Type, key.Name); err != nil {
		return fmt.Errorf("snapshotstore: delete %s:%s: %w", key.Type, key.Name, err)
	}
	return nil
}

// Close implements Store. Safe to call multiple times.
func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
