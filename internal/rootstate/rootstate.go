// Package rootstate remembers which storage roots the user connected across
// sessions. It is a small JSON state file under the user config directory.
// Persisting the remembered roots is best effort: the application works the
// same whether or not the file survives, so write failures degrade to "ask the
// user to reconnect next session" instead of surfacing errors.
package rootstate

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type state struct {
	Root     string `json:"root,omitempty"`
	SyncRoot string `json:"syncRoot,omitempty"`
}

// File manages one state file.
type File struct {
	path string
}

// DefaultPath returns the per-user location of the state file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "siteledger", "state.json"), nil
}

// New manages the state file at path. An empty path uses DefaultPath; when
// even that fails the File is inert and every lookup reports nothing saved.
func New(path string) *File {
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	return &File{path: path}
}

// Root returns the remembered primary storage root, or "" when none is saved.
func (f *File) Root() string { return f.load().Root }

// SyncRoot returns the remembered secondary sync root, or "" when none is
// saved.
func (f *File) SyncRoot() string { return f.load().SyncRoot }

// SaveRoot remembers the primary storage root. Best effort.
func (f *File) SaveRoot(root string) {
	st := f.load()
	st.Root = root
	f.store(st)
}

// SaveSyncRoot remembers the secondary sync root. Best effort.
func (f *File) SaveSyncRoot(root string) {
	st := f.load()
	st.SyncRoot = root
	f.store(st)
}

// Clear forgets both remembered roots.
func (f *File) Clear() {
	f.store(state{})
}

func (f *File) load() state {
	var st state
	if f.path == "" {
		return st
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return st
	}
	_ = json.Unmarshal(data, &st)
	return st
}

func (f *File) store(st state) {
	if f.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".state-*")
	if err != nil {
		return
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return
	}
	_ = os.Rename(tmp.Name(), f.path)
}
