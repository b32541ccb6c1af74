// Package collection provides the single read/mutate path every domain
// module uses to access one resource document.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"siteledger/pkg/domain"
)

// Logger is the minimal logging surface the collection needs. The service
// layer's logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// ErrNotBound reports a mutation attempted before any storage root was bound.
// Writes never silently no-op. Resource is empty when the failure concerns
// the store as a whole rather than one resource.
type ErrNotBound struct {
	Resource domain.Resource
}

func (e ErrNotBound) Error() string {
	if e.Resource == "" {
		return "no storage bound"
	}
	return fmt.Sprintf("resource %s has no storage bound", e.Resource)
}

// Collection caches the encoded document for one resource and funnels every
// mutation through a fresh read-transform-overwrite cycle. The cache holds
// bytes, not decoded records: every Read decodes its own copy, so callers can
// mutate what they get back (including nested slices) without aliasing.
//
// A nil store leaves the collection unbound: reads return an empty list with
// no I/O and mutations fail with ErrNotBound. Mutations within one Collection
// are serialized, so sequential calls always observe each other's results.
// Writers in other processes are not coordinated; the last full-document
// overwrite wins.
type Collection[T any] struct {
	resource domain.Resource
	store    domain.DocumentStore
	logger   Logger

	mu     sync.Mutex
	cache  []byte
	cached bool
}

// New binds a collection to its resource. store may be nil when no storage
// root is connected yet.
func New[T any](resource domain.Resource, store domain.DocumentStore, logger Logger) *Collection[T] {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Collection[T]{resource: resource, store: store, logger: logger}
}

// Resource returns the bound resource name.
func (c *Collection[T]) Resource() domain.Resource { return c.resource }

// Bound reports whether a storage backend is attached.
func (c *Collection[T]) Bound() bool { return c.store != nil }

// Ensure idempotently creates the backing document with its default content.
func (c *Collection[T]) Ensure(ctx context.Context) error {
	if c.store == nil {
		return ErrNotBound{Resource: c.resource}
	}
	return c.store.Ensure(ctx, c.resource, c.resource.DefaultContent())
}

// Read returns the decoded list, serving the cache when warm. Unbound
// collections return an empty list without touching storage.
func (c *Collection[T]) Read(ctx context.Context) ([]T, error) {
	if c.store == nil {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cached {
		list, data, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.cache = data
		c.cached = true
		return list, nil
	}
	if len(c.cache) == 0 {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal(c.cache, &list); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", c.resource, err)
	}
	return list, nil
}

// Mutate is the sole write path. It re-reads the current persisted list
// (never the cache), applies the transform, overwrites the whole document,
// and invalidates the cache. It returns the new list.
func (c *Collection[T]) Mutate(ctx context.Context, transform func([]T) ([]T, error)) ([]T, error) {
	if c.store == nil {
		return nil, ErrNotBound{Resource: c.resource}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	current, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := transform(current)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.resource, err)
	}
	if err := c.store.Write(ctx, c.resource, data); err != nil {
		return nil, err
	}
	c.cache = nil
	c.cached = false
	return next, nil
}

// Invalidate drops the cached list; the next Read hits storage.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	c.cache = nil
	c.cached = false
	c.mu.Unlock()
}

// load reads and decodes the persisted document, returning the list alongside
// the raw bytes for the cache. An absent document is an empty list. A document
// that fails to parse also degrades to empty (with nil bytes, so the warning
// fires once per cache fill, not once per read), but is logged distinctly so
// corruption is not mistaken for a fresh resource.
func (c *Collection[T]) load(ctx context.Context) ([]T, []byte, error) {
	data, found, err := c.store.Read(ctx, c.resource)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, nil
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		c.logger.Warn("resource document is corrupt, treating as empty",
			"resource", string(c.resource), "error", err.Error())
		return nil, nil, nil
	}
	return list, data, nil
}

// Object wraps a single-object resource (settings) with the same contract as
// Collection: cached reads decoding a detached copy, fresh read-modify-write
// mutations.
type Object[T any] struct {
	resource domain.Resource
	store    domain.DocumentStore
	logger   Logger

	mu     sync.Mutex
	cache  []byte
	cached bool
}

// NewObject binds an object accessor to its resource.
func NewObject[T any](resource domain.Resource, store domain.DocumentStore, logger Logger) *Object[T] {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Object[T]{resource: resource, store: store, logger: logger}
}

// Bound reports whether a storage backend is attached.
func (o *Object[T]) Bound() bool { return o.store != nil }

// Ensure idempotently creates the backing document with its default content.
func (o *Object[T]) Ensure(ctx context.Context) error {
	if o.store == nil {
		return ErrNotBound{Resource: o.resource}
	}
	return o.store.Ensure(ctx, o.resource, o.resource.DefaultContent())
}

// Read returns the decoded object, zero-valued when absent or unbound.
func (o *Object[T]) Read(ctx context.Context) (T, error) {
	var zero T
	if o.store == nil {
		return zero, nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.cached {
		value, data, err := o.load(ctx)
		if err != nil {
			return zero, err
		}
		o.cache = data
		o.cached = true
		return value, nil
	}
	if len(o.cache) == 0 {
		return zero, nil
	}
	var value T
	if err := json.Unmarshal(o.cache, &value); err != nil {
		return zero, fmt.Errorf("decode cached %s: %w", o.resource, err)
	}
	return value, nil
}

// Mutate re-reads the persisted object, applies the transform, and writes the
// result back.
func (o *Object[T]) Mutate(ctx context.Context, transform func(T) (T, error)) (T, error) {
	var zero T
	if o.store == nil {
		return zero, ErrNotBound{Resource: o.resource}
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	current, _, err := o.load(ctx)
	if err != nil {
		return zero, err
	}
	next, err := transform(current)
	if err != nil {
		return zero, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", o.resource, err)
	}
	if err := o.store.Write(ctx, o.resource, data); err != nil {
		return zero, err
	}
	o.cache = nil
	o.cached = false
	return next, nil
}

// Invalidate drops the cached object; the next Read hits storage.
func (o *Object[T]) Invalidate() {
	o.mu.Lock()
	o.cache = nil
	o.cached = false
	o.mu.Unlock()
}

func (o *Object[T]) load(ctx context.Context) (T, []byte, error) {
	var value T
	data, found, err := o.store.Read(ctx, o.resource)
	if err != nil {
		return value, nil, err
	}
	if !found {
		return value, nil, nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		o.logger.Warn("resource document is corrupt, treating as empty",
			"resource", string(o.resource), "error", err.Error())
		var zero T
		return zero, nil, nil
	}
	return value, data, nil
}
