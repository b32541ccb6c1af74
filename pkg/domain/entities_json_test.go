package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTaskJSONRoundTrip(t *testing.T) {
	worker := "w-1"
	due := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	in := Task{
		Base:      Base{ID: "t-1", CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		ProjectID: "p-1",
		Title:     "Pour foundation",
		Status:    TaskInProgress,
		WorkerID:  &worker,
		DueDate:   &due,
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Task
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || out.Title != in.Title || out.Status != in.Status {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.WorkerID == nil || *out.WorkerID != worker {
		t.Fatalf("worker id lost: %+v", out.WorkerID)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Fatalf("createdAt mismatch: %v", out.CreatedAt)
	}
}

// Documents edited by hand may omit any field beyond id and createdAt;
// decoding must tolerate both missing and unknown fields.
func TestEntityDecodeTolerance(t *testing.T) {
	raw := []byte(`{"id":"p-9","createdAt":"2025-01-02T10:00:00Z","someFutureField":true}`)
	var p Project
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("decode sparse project: %v", err)
	}
	if p.ID != "p-9" || p.Name != "" || p.ClientID != nil {
		t.Fatalf("unexpected decode: %+v", p)
	}

	var inv Invoice
	if err := json.Unmarshal([]byte(`{"id":"i-1"}`), &inv); err != nil {
		t.Fatalf("decode sparse invoice: %v", err)
	}
	if inv.Items != nil || inv.Total != 0 {
		t.Fatalf("unexpected invoice decode: %+v", inv)
	}
}

func TestResourceRegistry(t *testing.T) {
	all := Resources()
	if len(all) != 16 {
		t.Fatalf("expected 16 resources, got %d", len(all))
	}
	for _, r := range all {
		if !Known(r) {
			t.Fatalf("resource %s not known", r)
		}
		if r.FileName() != string(r)+".json" {
			t.Fatalf("file name mismatch for %s", r)
		}
	}
	if Known("widgets") {
		t.Fatal("unknown resource reported as known")
	}
	if string(ResourceSettings.DefaultContent()) != "{}" {
		t.Fatalf("settings default = %s", ResourceSettings.DefaultContent())
	}
	if string(ResourceProjects.DefaultContent()) != "[]" {
		t.Fatalf("projects default = %s", ResourceProjects.DefaultContent())
	}
}

func TestErrResourceUnavailableMessage(t *testing.T) {
	err := ErrResourceUnavailable{Resource: ResourceInvoices, Reason: "storage root is read-only"}
	want := "resource invoices unavailable: storage root is read-only"
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
	bare := ErrResourceUnavailable{Resource: ResourceTasks}
	if bare.Error() != "resource tasks unavailable" {
		t.Fatalf("bare error = %q", bare.Error())
	}
}
