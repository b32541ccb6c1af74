package rootstate

import (
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f := New(path)

	if got := f.Root(); got != "" {
		t.Fatalf("fresh root = %q, want empty", got)
	}

	f.SaveRoot("/data/site")
	f.SaveSyncRoot("/mnt/usb")

	reopened := New(path)
	if got := reopened.Root(); got != "/data/site" {
		t.Fatalf("root = %q", got)
	}
	if got := reopened.SyncRoot(); got != "/mnt/usb" {
		t.Fatalf("sync root = %q", got)
	}

	reopened.Clear()
	if got := New(path).Root(); got != "" {
		t.Fatalf("root after clear = %q, want empty", got)
	}
}

func TestSaveRootPreservesSyncRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f := New(path)
	f.SaveSyncRoot("/mnt/usb")
	f.SaveRoot("/data/site")
	if got := f.SyncRoot(); got != "/mnt/usb" {
		t.Fatalf("sync root = %q, want preserved", got)
	}
}

func TestInertWhenPathUnavailable(t *testing.T) {
	f := &File{}
	f.SaveRoot("/data/site")
	if got := f.Root(); got != "" {
		t.Fatalf("inert root = %q, want empty", got)
	}
}
