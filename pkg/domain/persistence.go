package domain

import (
	"context"
	"fmt"
)

// Resource names one independently read/written JSON document.
type Resource string

// Resource identifiers; each maps to <name>.json under a directory root or a
// fixed key in the key-value fallback.
const (
	ResourceProjects      Resource = "projects"
	ResourceTasks         Resource = "tasks"
	ResourceClients       Resource = "clients"
	ResourceActivity      Resource = "activity"
	ResourceSettings      Resource = "settings"
	ResourceWorkers       Resource = "workers"
	ResourceFilesMeta     Resource = "project_files_meta"
	ResourceInvoices      Resource = "invoices"
	ResourcePayments      Resource = "payments"
	ResourceExpenses      Resource = "expenses"
	ResourceWorkerLogs    Resource = "workers_log"
	ResourceDailyReports  Resource = "daily_reports"
	ResourceNotifications Resource = "notifications"
	ResourcePermissions   Resource = "permissions"
	ResourceLocations     Resource = "project_locations"
	ResourceSmartFund     Resource = "smart_fund"
)

// Resources returns every known resource in storage-layout order.
func Resources() []Resource {
	return []Resource{
		ResourceProjects,
		ResourceTasks,
		ResourceClients,
		ResourceActivity,
		ResourceSettings,
		ResourceWorkers,
		ResourceFilesMeta,
		ResourceInvoices,
		ResourcePayments,
		ResourceExpenses,
		ResourceWorkerLogs,
		ResourceDailyReports,
		ResourceNotifications,
		ResourcePermissions,
		ResourceLocations,
		ResourceSmartFund,
	}
}

// FileName returns the document file name for the resource.
func (r Resource) FileName() string { return string(r) + ".json" }

// DefaultContent returns the initial document body for a fresh resource:
// an empty array for collections, an empty object for settings.
func (r Resource) DefaultContent() []byte {
	if r == ResourceSettings {
		return []byte("{}")
	}
	return []byte("[]")
}

// Known reports whether r names a resource this system manages. Restore paths
// use it to skip unknown bundle keys.
func Known(r Resource) bool {
	for _, known := range Resources() {
		if known == r {
			return true
		}
	}
	return false
}

// DocumentStore is the minimal abstraction every storage backend implements.
// Reads and writes operate on whole documents; there is no partial update,
// no versioning, and no cross-process locking. The last writer wins.
type DocumentStore interface {
	// Ensure idempotently creates the resource with initial content when it
	// does not exist yet. Existing content is never touched, so calling it
	// every session is safe.
	Ensure(ctx context.Context, resource Resource, initial []byte) error
	// Read returns the raw document. Absent or empty resources report
	// found=false with a nil error.
	Read(ctx context.Context, resource Resource) (data []byte, found bool, err error)
	// Write replaces the resource's entire content.
	Write(ctx context.Context, resource Resource, data []byte) error
	// Close releases backend handles.
	Close() error
}

// ErrResourceUnavailable reports a write against a resource whose backing
// store cannot accept it (read-only root, revoked access). Callers must
// surface it rather than silently drop the write.
type ErrResourceUnavailable struct {
	Resource Resource
	Reason   string
}

func (e ErrResourceUnavailable) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("resource %s unavailable", e.Resource)
	}
	return fmt.Sprintf("resource %s unavailable: %s", e.Resource, e.Reason)
}
