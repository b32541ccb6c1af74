// Package memstore implements an in-memory document store for tests.
package memstore

import (
	"context"
	"sync"

	"siteledger/pkg/domain"
)

var _ domain.DocumentStore = (*Store)(nil)

// Store keeps documents in process memory. Byte slices are copied on the way
// in and out so callers cannot alias stored state.
type Store struct {
	mu   sync.RWMutex
	docs map[domain.Resource][]byte

	// FailWrites, when set, makes every Write fail with a resource-naming
	// error. Tests use it to exercise degraded-storage paths.
	FailWrites bool
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[domain.Resource][]byte)}
}

// Ensure stores the initial payload only when the resource is absent.
func (s *Store) Ensure(ctx context.Context, resource domain.Resource, initial []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[resource]; ok {
		return nil
	}
	s.docs[resource] = append([]byte(nil), initial...)
	return nil
}

// Read returns a copy of the stored document.
func (s *Store) Read(ctx context.Context, resource domain.Resource) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[resource]
	if !ok || len(data) == 0 {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Write replaces the stored document.
func (s *Store) Write(ctx context.Context, resource domain.Resource, data []byte) error {
	if s.FailWrites {
		return domain.ErrResourceUnavailable{Resource: resource, Reason: "writes disabled"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[resource] = append([]byte(nil), data...)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
