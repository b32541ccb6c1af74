package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"siteledger/internal/blob"
	"siteledger/internal/collection"
	"siteledger/internal/storage/memstore"
	"siteledger/pkg/domain"
)

func newTestService(t *testing.T, store domain.DocumentStore, opts ...Option) *Service {
	t.Helper()
	seq := 0
	base := []Option{
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }),
		WithIDFunc(func() string { seq++; return fmt.Sprintf("id-%d", seq) }),
	}
	return NewService(store, append(base, opts...)...)
}

func TestCreateProjectAssignsIdentityAndRecordsActivity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	p, err := svc.CreateProject(ctx, domain.Project{Name: "Villa renovation"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if p.ID != "id-1" {
		t.Fatalf("id = %q", p.ID)
	}
	if p.Status != domain.ProjectActive {
		t.Fatalf("status = %q, want default active", p.Status)
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be stamped")
	}

	projects, err := svc.ListProjects(ctx)
	if err != nil || len(projects) != 1 {
		t.Fatalf("list projects: %v %d", err, len(projects))
	}

	events, err := svc.ListActivity(ctx, "")
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("activity events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Resource != domain.ResourceProjects || ev.Action != domain.ActionCreate || ev.EntityID != p.ID {
		t.Fatalf("unexpected activity event: %+v", ev)
	}
}

func TestUpdateAndDeleteUnknownIDAreSilentNoOps(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	name := "renamed"
	_, ok, err := svc.UpdateProject(ctx, "missing", domain.ProjectPatch{Name: &name})
	if err != nil {
		t.Fatalf("update unknown: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for unknown id")
	}
	removed, err := svc.DeleteProject(ctx, "missing")
	if err != nil || removed {
		t.Fatalf("delete unknown: %v removed=%v", err, removed)
	}
	if events, _ := svc.ListActivity(ctx, ""); len(events) != 0 {
		t.Fatalf("no-ops must not log activity, got %d events", len(events))
	}
}

func TestUpdatePatchMergesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	p, err := svc.CreateProject(ctx, domain.Project{Name: "Villa", Address: "12 Main St", Notes: "keep"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	name := "Villa phase 2"
	updated, ok, err := svc.UpdateProject(ctx, p.ID, domain.ProjectPatch{Name: &name})
	if err != nil || !ok {
		t.Fatalf("update: %v ok=%v", err, ok)
	}
	if updated.Name != "Villa phase 2" || updated.Address != "12 Main St" || updated.Notes != "keep" {
		t.Fatalf("patch clobbered untouched fields: %+v", updated)
	}
	if updated.ID != p.ID || !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("identity fields changed: %+v", updated)
	}
}

func TestInvoiceTotalsComputedOnCreateAndItemUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	inv, err := svc.CreateInvoice(ctx, domain.Invoice{
		ProjectID: "proj-1",
		Number:    "INV-001",
		Items: []domain.InvoiceItem{
			{Description: "labor", Quantity: 2, UnitPrice: 100},
			{Description: "materials", Quantity: 1, UnitPrice: 50},
		},
		TaxRate: 10,
		// caller-supplied totals are discarded
		Subtotal: 9999,
		Total:    9999,
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.Subtotal != 250 || inv.TaxAmount != 25 || inv.Total != 275 {
		t.Fatalf("totals = %v/%v/%v, want 250/25/275", inv.Subtotal, inv.TaxAmount, inv.Total)
	}

	// A patch that only touches notes leaves totals alone.
	notes := "net 30"
	inv2, ok, err := svc.UpdateInvoice(ctx, inv.ID, domain.InvoicePatch{Notes: &notes})
	if err != nil || !ok {
		t.Fatalf("update notes: %v ok=%v", err, ok)
	}
	if inv2.Total != 275 {
		t.Fatalf("total after notes patch = %v", inv2.Total)
	}

	// Touching the tax rate recomputes.
	zero := 0.0
	inv3, ok, err := svc.UpdateInvoice(ctx, inv.ID, domain.InvoicePatch{TaxRate: &zero})
	if err != nil || !ok {
		t.Fatalf("update tax: %v ok=%v", err, ok)
	}
	if inv3.Subtotal != 250 || inv3.TaxAmount != 0 || inv3.Total != 250 {
		t.Fatalf("totals after tax patch = %v/%v/%v", inv3.Subtotal, inv3.TaxAmount, inv3.Total)
	}
}

func TestWorkerLogCostFrozenAtCreation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	wl, err := svc.CreateWorkerLog(ctx, domain.WorkerLog{
		ProjectID:      "proj-1",
		WorkersCount:   4,
		HoursPerWorker: 8,
		HourlyRate:     12.5,
	})
	if err != nil {
		t.Fatalf("create worker log: %v", err)
	}
	if wl.TotalCost != 400 {
		t.Fatalf("total cost = %v, want 400", wl.TotalCost)
	}

	notes := "overtime excluded"
	updated, ok, err := svc.UpdateWorkerLog(ctx, wl.ID, domain.WorkerLogPatch{Notes: &notes})
	if err != nil || !ok {
		t.Fatalf("update worker log: %v ok=%v", err, ok)
	}
	if updated.TotalCost != 400 {
		t.Fatalf("total cost after patch = %v, want frozen 400", updated.TotalCost)
	}
}

func TestFundBalanceFoldsPerCurrency(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	entries := []domain.FundTransaction{
		{ProjectID: "proj-1", Kind: domain.FundDeposit, Currency: domain.CurrencyUSD, Amount: 100},
		{ProjectID: "proj-1", Kind: domain.FundExpense, Currency: domain.CurrencyUSD, Amount: 40},
		{ProjectID: "proj-1", Kind: domain.FundDeposit, Currency: domain.CurrencySYP, Amount: 5000},
		{ProjectID: "proj-2", Kind: domain.FundDeposit, Currency: domain.CurrencyUSD, Amount: 999},
	}
	for _, e := range entries {
		if _, err := svc.AddFundTransaction(ctx, e); err != nil {
			t.Fatalf("add fund transaction: %v", err)
		}
	}

	balance, err := svc.FundBalance(ctx, "proj-1")
	if err != nil {
		t.Fatalf("fund balance: %v", err)
	}
	if balance.USD != 60 || balance.SYP != 5000 {
		t.Fatalf("balance = %+v, want usd 60 syp 5000", balance)
	}
}

func TestTaskAssignmentAndInvoiceCreationNotify(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	worker := "worker-1"
	if _, err := svc.CreateTask(ctx, domain.Task{ProjectID: "proj-1", Title: "pour slab", WorkerID: &worker}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := svc.CreateTask(ctx, domain.Task{ProjectID: "proj-1", Title: "unassigned"}); err != nil {
		t.Fatalf("create unassigned task: %v", err)
	}
	if _, err := svc.CreateInvoice(ctx, domain.Invoice{ProjectID: "proj-1", Number: "INV-001"}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	feed, err := svc.ListNotifications(ctx)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	kinds := make(map[string]int)
	for _, n := range feed {
		kinds[n.Kind]++
	}
	if kinds["task_assigned"] != 1 || kinds["invoice_created"] != 1 {
		t.Fatalf("notification kinds = %v", kinds)
	}
}

// advisoryFailingStore fails writes only for designated resources so the
// primary mutation of an operation still succeeds.
type advisoryFailingStore struct {
	*memstore.Store
	fail map[domain.Resource]bool
}

func (s *advisoryFailingStore) Write(ctx context.Context, resource domain.Resource, data []byte) error {
	if s.fail[resource] {
		return domain.ErrResourceUnavailable{Resource: resource, Reason: "writes disabled"}
	}
	return s.Store.Write(ctx, resource, data)
}

func TestAdvisoryWriteFailuresDoNotFailPrimaryMutation(t *testing.T) {
	ctx := context.Background()
	store := &advisoryFailingStore{
		Store: memstore.New(),
		fail: map[domain.Resource]bool{
			domain.ResourceActivity:      true,
			domain.ResourceNotifications: true,
		},
	}
	svc := newTestService(t, store)

	worker := "worker-1"
	if _, err := svc.CreateTask(ctx, domain.Task{ProjectID: "proj-1", Title: "dig footing", WorkerID: &worker}); err != nil {
		t.Fatalf("create task must survive advisory failures: %v", err)
	}
	tasks, err := svc.ListTasks(ctx, "")
	if err != nil || len(tasks) != 1 {
		t.Fatalf("list tasks: %v %d", err, len(tasks))
	}
}

func TestPrimaryWriteFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.FailWrites = true
	svc := newTestService(t, store)

	_, err := svc.CreateProject(ctx, domain.Project{Name: "doomed"})
	var unavailable domain.ErrResourceUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want ErrResourceUnavailable", err)
	}
}

func TestUnboundServiceReadsEmptyAndRejectsWrites(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	if svc.Bound() {
		t.Fatal("nil store must report unbound")
	}
	projects, err := svc.ListProjects(ctx)
	if err != nil || len(projects) != 0 {
		t.Fatalf("unbound list: %v %d", err, len(projects))
	}
	settings, err := svc.Settings(ctx)
	if err != nil || settings != (domain.Settings{}) {
		t.Fatalf("unbound settings: %v %+v", err, settings)
	}

	_, err = svc.CreateProject(ctx, domain.Project{Name: "x"})
	var notBound collection.ErrNotBound
	if !errors.As(err, &notBound) {
		t.Fatalf("err = %v, want ErrNotBound", err)
	}
}

func TestSettingsPatchMerges(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	business := "Hammoud Contracting"
	cur := domain.CurrencyUSD
	if _, err := svc.UpdateSettings(ctx, domain.SettingsPatch{BusinessName: &business, DefaultCurrency: &cur}); err != nil {
		t.Fatalf("first settings update: %v", err)
	}
	lang := "ar"
	got, err := svc.UpdateSettings(ctx, domain.SettingsPatch{Language: &lang})
	if err != nil {
		t.Fatalf("second settings update: %v", err)
	}
	if got.BusinessName != "Hammoud Contracting" || got.DefaultCurrency != domain.CurrencyUSD || got.Language != "ar" {
		t.Fatalf("merged settings = %+v", got)
	}
}

func TestEnsureResourcesCreatesAllDocuments(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := newTestService(t, store)

	if err := svc.EnsureResources(ctx); err != nil {
		t.Fatalf("ensure resources: %v", err)
	}
	for _, res := range domain.Resources() {
		data, found, err := store.Read(ctx, res)
		if err != nil || !found {
			t.Fatalf("resource %s missing after ensure: %v", res, err)
		}
		if want := string(res.DefaultContent()); string(data) != want {
			t.Fatalf("resource %s content = %q, want %q", res, data, want)
		}
	}
}

func TestEnsureResourcesUnboundNamesNoSingleResource(t *testing.T) {
	svc := newTestService(t, nil)
	err := svc.EnsureResources(context.Background())
	var notBound collection.ErrNotBound
	if !errors.As(err, &notBound) {
		t.Fatalf("err = %v, want ErrNotBound", err)
	}
	if notBound.Resource != "" {
		t.Fatalf("store-level failure should not name one resource, got %s", notBound.Resource)
	}
}

func TestUploadProjectFileRecordsMetadataAndActivity(t *testing.T) {
	ctx := context.Background()
	uploads := blob.NewMemory()
	svc := newTestService(t, memstore.New(), WithUploads(uploads))

	meta, err := svc.UploadProjectFile(ctx, "proj-1", "plan.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if meta.Key != "proj-1/plan.pdf" || meta.Size != int64(len("pdf-bytes")) || meta.ContentType != "application/pdf" {
		t.Fatalf("meta = %+v", meta)
	}
	if _, err := uploads.Head(ctx, meta.Key); err != nil {
		t.Fatalf("blob missing after upload: %v", err)
	}

	files, err := svc.ListProjectFiles(ctx, "proj-1")
	if err != nil || len(files) != 1 || files[0].ID != meta.ID {
		t.Fatalf("list files: %v %+v", err, files)
	}
	events, err := svc.ListActivity(ctx, "proj-1")
	if err != nil || len(events) != 1 {
		t.Fatalf("activity: %v %+v", err, events)
	}
	if events[0].Resource != domain.ResourceFilesMeta || events[0].Action != domain.ActionCreate || events[0].EntityID != meta.ID {
		t.Fatalf("unexpected activity event: %+v", events[0])
	}
}

func TestDeleteProjectFileRemovesBlobAndMetadata(t *testing.T) {
	ctx := context.Background()
	uploads := blob.NewMemory()
	svc := newTestService(t, memstore.New(), WithUploads(uploads))

	meta, err := svc.UploadProjectFile(ctx, "proj-1", "plan.pdf", "application/pdf", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	ok, err := svc.DeleteProjectFile(ctx, meta.ID)
	if err != nil || !ok {
		t.Fatalf("delete: %v ok=%v", err, ok)
	}
	if _, err := uploads.Head(ctx, meta.Key); err == nil {
		t.Fatal("blob still present after delete")
	}
	files, err := svc.ListProjectFiles(ctx, "proj-1")
	if err != nil || len(files) != 0 {
		t.Fatalf("files after delete: %v %+v", err, files)
	}

	ok, err = svc.DeleteProjectFile(ctx, meta.ID)
	if err != nil || ok {
		t.Fatalf("second delete: %v ok=%v", err, ok)
	}
}

func TestUploadWithoutUploadStoreFails(t *testing.T) {
	svc := newTestService(t, memstore.New())
	if _, err := svc.UploadProjectFile(context.Background(), "proj-1", "plan.pdf", "", strings.NewReader("x")); err == nil {
		t.Fatal("expected error without an upload store")
	}
}

func TestMarkNotificationRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memstore.New())

	if _, err := svc.CreateInvoice(ctx, domain.Invoice{ProjectID: "proj-1", Number: "INV-001"}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	feed, _ := svc.ListNotifications(ctx)
	if len(feed) != 1 || feed[0].Read {
		t.Fatalf("feed = %+v", feed)
	}
	n, ok, err := svc.MarkNotificationRead(ctx, feed[0].ID, true)
	if err != nil || !ok || !n.Read {
		t.Fatalf("mark read: %v ok=%v read=%v", err, ok, n.Read)
	}
}
