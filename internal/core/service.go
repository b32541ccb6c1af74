// Package core implements the domain service: per-resource CRUD with
// identity and timestamp assignment, derived-field computation, and advisory
// activity/notification side effects.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"siteledger/internal/blob"
	"siteledger/internal/collection"
	"siteledger/pkg/domain"
)

// invalidator lets backup restore drop every cached list in one sweep.
type invalidator interface {
	Invalidate()
}

// Service exposes the domain operations for every resource. All dependencies
// are constructor-threaded; there is no ambient storage root, so tests bind
// an in-memory store directly.
type Service struct {
	store   domain.DocumentStore
	uploads blob.Store
	logger  Logger
	metrics MetricsRecorder
	now     func() time.Time
	newID   func() string

	projects      *collection.Collection[domain.Project]
	tasks         *collection.Collection[domain.Task]
	clients       *collection.Collection[domain.Client]
	workers       *collection.Collection[domain.Worker]
	invoices      *collection.Collection[domain.Invoice]
	payments      *collection.Collection[domain.Payment]
	expenses      *collection.Collection[domain.Expense]
	workerLogs    *collection.Collection[domain.WorkerLog]
	dailyReports  *collection.Collection[domain.DailyReport]
	notifications *collection.Collection[domain.Notification]
	activity      *collection.Collection[domain.ActivityEvent]
	permissions   *collection.Collection[domain.PermissionUser]
	locations     *collection.Collection[domain.ProjectLocation]
	fund          *collection.Collection[domain.FundTransaction]
	filesMeta     *collection.Collection[domain.FileMeta]
	settings      *collection.Object[domain.Settings]

	caches map[domain.Resource]invalidator
}

// Option configures a Service.
type Option func(*Service)

// WithLogger installs a structured logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics installs a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDFunc overrides the identifier generator.
func WithIDFunc(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithUploads attaches a blob store for per-project binary files.
func WithUploads(store blob.Store) Option {
	return func(s *Service) { s.uploads = store }
}

// NewService constructs a service over the given document store. A nil store
// leaves every collection unbound: reads return empty lists and mutations
// fail with a not-bound error, which is how the system tolerates "storage not
// set up yet".
func NewService(store domain.DocumentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.projects = collection.New[domain.Project](domain.ResourceProjects, store, s.logger)
	s.tasks = collection.New[domain.Task](domain.ResourceTasks, store, s.logger)
	s.clients = collection.New[domain.Client](domain.ResourceClients, store, s.logger)
	s.workers = collection.New[domain.Worker](domain.ResourceWorkers, store, s.logger)
	s.invoices = collection.New[domain.Invoice](domain.ResourceInvoices, store, s.logger)
	s.payments = collection.New[domain.Payment](domain.ResourcePayments, store, s.logger)
	s.expenses = collection.New[domain.Expense](domain.ResourceExpenses, store, s.logger)
	s.workerLogs = collection.New[domain.WorkerLog](domain.ResourceWorkerLogs, store, s.logger)
	s.dailyReports = collection.New[domain.DailyReport](domain.ResourceDailyReports, store, s.logger)
	s.notifications = collection.New[domain.Notification](domain.ResourceNotifications, store, s.logger)
	s.activity = collection.New[domain.ActivityEvent](domain.ResourceActivity, store, s.logger)
	s.permissions = collection.New[domain.PermissionUser](domain.ResourcePermissions, store, s.logger)
	s.locations = collection.New[domain.ProjectLocation](domain.ResourceLocations, store, s.logger)
	s.fund = collection.New[domain.FundTransaction](domain.ResourceSmartFund, store, s.logger)
	s.filesMeta = collection.New[domain.FileMeta](domain.ResourceFilesMeta, store, s.logger)
	s.settings = collection.NewObject[domain.Settings](domain.ResourceSettings, store, s.logger)

	s.caches = map[domain.Resource]invalidator{
		domain.ResourceProjects:      s.projects,
		domain.ResourceTasks:         s.tasks,
		domain.ResourceClients:       s.clients,
		domain.ResourceWorkers:       s.workers,
		domain.ResourceInvoices:      s.invoices,
		domain.ResourcePayments:      s.payments,
		domain.ResourceExpenses:      s.expenses,
		domain.ResourceWorkerLogs:    s.workerLogs,
		domain.ResourceDailyReports:  s.dailyReports,
		domain.ResourceNotifications: s.notifications,
		domain.ResourceActivity:      s.activity,
		domain.ResourcePermissions:   s.permissions,
		domain.ResourceLocations:     s.locations,
		domain.ResourceSmartFund:     s.fund,
		domain.ResourceFilesMeta:     s.filesMeta,
		domain.ResourceSettings:      s.settings,
	}
	return s
}

// Store returns the bound document store (nil when unbound).
func (s *Service) Store() domain.DocumentStore { return s.store }

// Bound reports whether a storage backend is attached.
func (s *Service) Bound() bool { return s.store != nil }

// EnsureResources idempotently creates every resource document. Safe to call
// on every startup; existing content is never touched.
func (s *Service) EnsureResources(ctx context.Context) error {
	if s.store == nil {
		return collection.ErrNotBound{}
	}
	for _, r := range domain.Resources() {
		if err := s.store.Ensure(ctx, r, r.DefaultContent()); err != nil {
			return err
		}
	}
	return nil
}

// newBase stamps identity and creation time for a fresh record.
func (s *Service) newBase() domain.Base {
	return domain.Base{ID: s.newID(), CreatedAt: s.now()}
}

// observe reports one finished operation to metrics and the log.
func (s *Service) observe(ctx context.Context, op string, started time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, time.Since(started))
	if err != nil {
		s.logger.Error(op+" failed", "error", err.Error())
		return
	}
	s.logger.Debug(op + " ok")
}

// recordActivity appends to the activity log after a successful primary
// mutation. The write is advisory: failures are logged and discarded, never
// surfaced to the caller.
func (s *Service) recordActivity(ctx context.Context, resource domain.Resource, entityID string, action domain.Action, summary string, projectID *string) {
	event := domain.ActivityEvent{
		Base:      s.newBase(),
		Resource:  resource,
		EntityID:  entityID,
		Action:    action,
		Summary:   summary,
		ProjectID: projectID,
	}
	if _, err := s.activity.Mutate(ctx, func(cur []domain.ActivityEvent) ([]domain.ActivityEvent, error) {
		return append(cur, event), nil
	}); err != nil {
		s.logger.Warn("activity log write failed", "resource", string(resource), "error", err.Error())
	}
}

// notify appends a notification after a successful primary mutation. Like
// recordActivity, failures are swallowed.
func (s *Service) notify(ctx context.Context, projectID *string, kind, title, message string) {
	n := domain.Notification{
		Base:      s.newBase(),
		ProjectID: projectID,
		Kind:      kind,
		Title:     title,
		Message:   message,
	}
	if _, err := s.notifications.Mutate(ctx, func(cur []domain.Notification) ([]domain.Notification, error) {
		return append(cur, n), nil
	}); err != nil {
		s.logger.Warn("notification write failed", "kind", kind, "error", err.Error())
	}
}
