// Package pgstore persists resources in a PostgreSQL table, one JSONB row per
// resource. It mirrors the directory layout for deployments that keep the
// ledger on a shared database instead of local files.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"siteledger/pkg/domain"
)

var _ domain.DocumentStore = (*Store)(nil)

const (
	driverName = "pgx"
	defaultDSN = "postgres://localhost/siteledger?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store implements domain.DocumentStore on PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open connects using the provided DSN (falls back to a local default) and
// ensures the resources table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("pgstore: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS resources (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("pgstore: ensure resources table: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Ensure inserts the initial payload only when the resource row is absent.
func (s *Store) Ensure(ctx context.Context, resource domain.Resource, initial []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources(name,payload) VALUES($1,$2) ON CONFLICT(name) DO NOTHING`,
		string(resource), initial)
	if err != nil {
		return fmt.Errorf("pgstore: ensure %s: %w", resource, err)
	}
	return nil
}

// Read returns the stored payload; an absent or empty row reports found=false.
func (s *Store) Read(ctx context.Context, resource domain.Resource) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM resources WHERE name = $1`, string(resource)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pgstore: read %s: %w", resource, err)
	}
	if len(payload) == 0 {
		return nil, false, nil
	}
	return payload, true, nil
}

// Write upserts the full payload for the resource.
func (s *Store) Write(ctx context.Context, resource domain.Resource, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources(name,payload) VALUES($1,$2) ON CONFLICT(name) DO UPDATE SET payload=EXCLUDED.payload`,
		string(resource), data)
	if err != nil {
		return domain.ErrResourceUnavailable{Resource: resource, Reason: err.Error()}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
