// Package kvstore persists resources as rows in an embedded SQLite database,
// one row per resource under a fixed key. It is the fallback backend for
// hosts where a plain directory root is not usable.
package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"siteledger/pkg/domain"
)

var _ domain.DocumentStore = (*Store)(nil)

// Store implements domain.DocumentStore on a single-table SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path (default ./siteledger.db) and
// ensures the resources table exists.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "siteledger.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("kvstore: create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS resources (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("kvstore: create resources table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Ensure inserts the initial payload only when the resource row is absent.
func (s *Store) Ensure(ctx context.Context, resource domain.Resource, initial []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources(name,payload) VALUES(?,?) ON CONFLICT(name) DO NOTHING`,
		string(resource), initial)
	if err != nil {
		return fmt.Errorf("kvstore: ensure %s: %w", resource, err)
	}
	return nil
}

// Read returns the stored payload; an absent or empty row reports found=false.
func (s *Store) Read(ctx context.Context, resource domain.Resource) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM resources WHERE name = ?`, string(resource)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: read %s: %w", resource, err)
	}
	if len(payload) == 0 {
		return nil, false, nil
	}
	return payload, true, nil
}

// Write upserts the full payload for the resource.
func (s *Store) Write(ctx context.Context, resource domain.Resource, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources(name,payload) VALUES(?,?) ON CONFLICT(name) DO UPDATE SET payload=excluded.payload`,
		string(resource), data)
	if err != nil {
		return domain.ErrResourceUnavailable{Resource: resource, Reason: err.Error()}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
