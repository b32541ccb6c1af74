// Package dirstore persists each resource as one pretty-printed JSON file in
// a flat directory chosen by the user.
package dirstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"siteledger/pkg/domain"
)

var _ domain.DocumentStore = (*Store)(nil)

// Store implements domain.DocumentStore on a local directory. Writes go
// through a temp file and rename so readers never observe a torn document.
// There is no cross-process locking; concurrent writers race and the last
// rename wins.
type Store struct {
	root     string
	readOnly bool
}

// Open binds a store to the directory root, creating it when absent. When the
// root cannot be written (mount permissions, revoked access) the store opens
// in read-only mode: reads keep working, writes fail with a resource-naming
// error.
func Open(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("dirstore: empty root")
	}
	readOnly := false
	if err := os.MkdirAll(root, 0o755); err != nil {
		if !errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("dirstore: create root: %w", err)
		}
		readOnly = true
	}
	if !readOnly {
		readOnly = !probeWritable(root)
	}
	return &Store{root: root, readOnly: readOnly}, nil
}

// probeWritable checks write access by creating and removing a marker file.
func probeWritable(root string) bool {
	f, err := os.CreateTemp(root, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// Root returns the bound directory.
func (s *Store) Root() string { return s.root }

// ReadOnly reports whether the root rejected write access at open time.
func (s *Store) ReadOnly() bool { return s.readOnly }

func (s *Store) path(resource domain.Resource) string {
	return filepath.Join(s.root, resource.FileName())
}

// Ensure creates the resource file with initial content when it does not
// exist. Existing files are never touched.
func (s *Store) Ensure(ctx context.Context, resource domain.Resource, initial []byte) error {
	path := s.path(resource)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("dirstore: stat %s: %w", resource, err)
	}
	if s.readOnly {
		return domain.ErrResourceUnavailable{Resource: resource, Reason: "storage root is read-only"}
	}
	return s.writeFile(resource, initial)
}

// Read returns the raw document. A missing or empty file reports found=false.
func (s *Store) Read(ctx context.Context, resource domain.Resource) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(resource))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("dirstore: read %s: %w", resource, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// Write replaces the resource file with the given document, pretty-printed.
func (s *Store) Write(ctx context.Context, resource domain.Resource, data []byte) error {
	if s.readOnly {
		return domain.ErrResourceUnavailable{Resource: resource, Reason: "storage root is read-only"}
	}
	return s.writeFile(resource, data)
}

func (s *Store) writeFile(resource domain.Resource, data []byte) error {
	pretty := indent(data)
	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return domain.ErrResourceUnavailable{Resource: resource, Reason: "write access denied"}
		}
		return fmt.Errorf("dirstore: temp file for %s: %w", resource, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(pretty); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("dirstore: write %s: %w", resource, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("dirstore: sync %s: %w", resource, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("dirstore: close %s: %w", resource, err)
	}
	if err := os.Rename(tmp.Name(), s.path(resource)); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return domain.ErrResourceUnavailable{Resource: resource, Reason: "write access denied"}
		}
		return fmt.Errorf("dirstore: replace %s: %w", resource, err)
	}
	return nil
}

// indent pretty-prints valid JSON and passes anything else through untouched.
func indent(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return data
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Close is a no-op: the store holds no open handles between calls.
func (s *Store) Close() error { return nil }
