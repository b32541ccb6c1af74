package kvstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"siteledger/pkg/domain"
)

func TestRoundTripAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := s.Write(ctx, domain.ResourceWorkers, []byte(`[{"id":"w1","name":"Sami"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()
	data, found, err := s2.Read(ctx, domain.ResourceWorkers)
	if err != nil || !found {
		t.Fatalf("read after reopen: found=%v err=%v", found, err)
	}
	if !strings.Contains(string(data), "Sami") {
		t.Fatalf("payload lost: %s", data)
	}
}

func TestEnsureDoesNotClobber(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	if err := s.Ensure(ctx, domain.ResourceSettings, []byte(`{"language":"ar"}`)); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := s.Ensure(ctx, domain.ResourceSettings, []byte(`{}`)); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	data, found, err := s.Read(ctx, domain.ResourceSettings)
	if err != nil || !found {
		t.Fatalf("read: found=%v err=%v", found, err)
	}
	if !strings.Contains(string(data), "ar") {
		t.Fatalf("initial content clobbered: %s", data)
	}
}

func TestReadAbsent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, found, err := s.Read(context.Background(), domain.ResourceSmartFund); found || err != nil {
		t.Fatalf("absent resource: found=%v err=%v", found, err)
	}
}
