package domain

import "time"

// Patch types implement shallow-merge updates: only non-nil fields overwrite
// the stored record, mirroring a spread-merge onto the matching element.
// Identity and creation timestamps are never patchable.

// ProjectPatch mutates a Project in place.
type ProjectPatch struct {
	Name      *string
	ClientID  *string
	Status    *ProjectStatus
	Budget    *float64
	Currency  *Currency
	StartDate *time.Time
	EndDate   *time.Time
	Address   *string
	Notes     *string
}

// Apply merges the patch onto p.
func (pt ProjectPatch) Apply(p *Project) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.ClientID != nil {
		p.ClientID = pt.ClientID
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.Budget != nil {
		p.Budget = *pt.Budget
	}
	if pt.Currency != nil {
		p.Currency = *pt.Currency
	}
	if pt.StartDate != nil {
		p.StartDate = pt.StartDate
	}
	if pt.EndDate != nil {
		p.EndDate = pt.EndDate
	}
	if pt.Address != nil {
		p.Address = *pt.Address
	}
	if pt.Notes != nil {
		p.Notes = *pt.Notes
	}
}

// TaskPatch mutates a Task in place.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	WorkerID    *string
	DueDate     *time.Time
}

// Apply merges the patch onto t.
func (pt TaskPatch) Apply(t *Task) {
	if pt.Title != nil {
		t.Title = *pt.Title
	}
	if pt.Description != nil {
		t.Description = *pt.Description
	}
	if pt.Status != nil {
		t.Status = *pt.Status
	}
	if pt.WorkerID != nil {
		t.WorkerID = pt.WorkerID
	}
	if pt.DueDate != nil {
		t.DueDate = pt.DueDate
	}
}

// ClientPatch mutates a Client in place.
type ClientPatch struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// Apply merges the patch onto c.
func (pt ClientPatch) Apply(c *Client) {
	if pt.Name != nil {
		c.Name = *pt.Name
	}
	if pt.Phone != nil {
		c.Phone = *pt.Phone
	}
	if pt.Email != nil {
		c.Email = *pt.Email
	}
	if pt.Address != nil {
		c.Address = *pt.Address
	}
	if pt.Notes != nil {
		c.Notes = *pt.Notes
	}
}

// WorkerPatch mutates a Worker in place.
type WorkerPatch struct {
	Name       *string
	Phone      *string
	Role       *string
	HourlyRate *float64
	DailyRate  *float64
	Active     *bool
}

// Apply merges the patch onto w.
func (pt WorkerPatch) Apply(w *Worker) {
	if pt.Name != nil {
		w.Name = *pt.Name
	}
	if pt.Phone != nil {
		w.Phone = *pt.Phone
	}
	if pt.Role != nil {
		w.Role = *pt.Role
	}
	if pt.HourlyRate != nil {
		w.HourlyRate = *pt.HourlyRate
	}
	if pt.DailyRate != nil {
		w.DailyRate = *pt.DailyRate
	}
	if pt.Active != nil {
		w.Active = *pt.Active
	}
}

// InvoicePatch mutates an Invoice in place. Touched reports whether the patch
// changes items or tax rate, which forces a totals recompute.
type InvoicePatch struct {
	ClientID *string
	Number   *string
	Items    *[]InvoiceItem
	TaxRate  *float64
	Status   *InvoiceStatus
	IssuedAt *time.Time
	DueAt    *time.Time
	Notes    *string
}

// TouchesTotals reports whether applying the patch requires recomputing the
// derived totals.
func (pt InvoicePatch) TouchesTotals() bool {
	return pt.Items != nil || pt.TaxRate != nil
}

// Apply merges the patch onto inv and refreshes totals when needed.
func (pt InvoicePatch) Apply(inv *Invoice) {
	if pt.ClientID != nil {
		inv.ClientID = pt.ClientID
	}
	if pt.Number != nil {
		inv.Number = *pt.Number
	}
	if pt.Items != nil {
		inv.Items = append([]InvoiceItem(nil), (*pt.Items)...)
	}
	if pt.TaxRate != nil {
		inv.TaxRate = *pt.TaxRate
	}
	if pt.Status != nil {
		inv.Status = *pt.Status
	}
	if pt.IssuedAt != nil {
		inv.IssuedAt = pt.IssuedAt
	}
	if pt.DueAt != nil {
		inv.DueAt = pt.DueAt
	}
	if pt.Notes != nil {
		inv.Notes = *pt.Notes
	}
	if pt.TouchesTotals() {
		inv.RecomputeTotals()
	}
}

// PaymentPatch mutates a Payment in place.
type PaymentPatch struct {
	InvoiceID *string
	Amount    *float64
	Currency  *Currency
	Method    *string
	PaidAt    *time.Time
	Notes     *string
}

// Apply merges the patch onto p.
func (pt PaymentPatch) Apply(p *Payment) {
	if pt.InvoiceID != nil {
		p.InvoiceID = pt.InvoiceID
	}
	if pt.Amount != nil {
		p.Amount = *pt.Amount
	}
	if pt.Currency != nil {
		p.Currency = *pt.Currency
	}
	if pt.Method != nil {
		p.Method = *pt.Method
	}
	if pt.PaidAt != nil {
		p.PaidAt = pt.PaidAt
	}
	if pt.Notes != nil {
		p.Notes = *pt.Notes
	}
}

// ExpensePatch mutates an Expense in place.
type ExpensePatch struct {
	Category    *string
	Amount      *float64
	Currency    *Currency
	SpentAt     *time.Time
	Description *string
}

// Apply merges the patch onto e.
func (pt ExpensePatch) Apply(e *Expense) {
	if pt.Category != nil {
		e.Category = *pt.Category
	}
	if pt.Amount != nil {
		e.Amount = *pt.Amount
	}
	if pt.Currency != nil {
		e.Currency = *pt.Currency
	}
	if pt.SpentAt != nil {
		e.SpentAt = pt.SpentAt
	}
	if pt.Description != nil {
		e.Description = *pt.Description
	}
}

// WorkerLogPatch mutates a WorkerLog in place. The cost inputs and TotalCost
// are deliberately not patchable: the cost is a point-in-time snapshot.
type WorkerLogPatch struct {
	Date  *time.Time
	Notes *string
}

// Apply merges the patch onto wl.
func (pt WorkerLogPatch) Apply(wl *WorkerLog) {
	if pt.Date != nil {
		wl.Date = pt.Date
	}
	if pt.Notes != nil {
		wl.Notes = *pt.Notes
	}
}

// DailyReportPatch mutates a DailyReport in place.
type DailyReportPatch struct {
	Date      *time.Time
	Summary   *string
	Weather   *string
	CrewCount *int
	Issues    *string
}

// Apply merges the patch onto r.
func (pt DailyReportPatch) Apply(r *DailyReport) {
	if pt.Date != nil {
		r.Date = pt.Date
	}
	if pt.Summary != nil {
		r.Summary = *pt.Summary
	}
	if pt.Weather != nil {
		r.Weather = *pt.Weather
	}
	if pt.CrewCount != nil {
		r.CrewCount = *pt.CrewCount
	}
	if pt.Issues != nil {
		r.Issues = *pt.Issues
	}
}

// NotificationPatch mutates a Notification in place.
type NotificationPatch struct {
	Read *bool
}

// Apply merges the patch onto n.
func (pt NotificationPatch) Apply(n *Notification) {
	if pt.Read != nil {
		n.Read = *pt.Read
	}
}

// PermissionUserPatch mutates a PermissionUser in place.
type PermissionUserPatch struct {
	Name   *string
	Role   *string
	Active *bool
}

// Apply merges the patch onto u.
func (pt PermissionUserPatch) Apply(u *PermissionUser) {
	if pt.Name != nil {
		u.Name = *pt.Name
	}
	if pt.Role != nil {
		u.Role = *pt.Role
	}
	if pt.Active != nil {
		u.Active = *pt.Active
	}
}

// LocationPatch mutates a ProjectLocation in place.
type LocationPatch struct {
	Label     *string
	Latitude  *float64
	Longitude *float64
	Address   *string
}

// Apply merges the patch onto l.
func (pt LocationPatch) Apply(l *ProjectLocation) {
	if pt.Label != nil {
		l.Label = *pt.Label
	}
	if pt.Latitude != nil {
		l.Latitude = *pt.Latitude
	}
	if pt.Longitude != nil {
		l.Longitude = *pt.Longitude
	}
	if pt.Address != nil {
		l.Address = *pt.Address
	}
}

// FundTransactionPatch mutates a FundTransaction in place.
type FundTransactionPatch struct {
	Kind     *FundKind
	Currency *Currency
	Amount   *float64
	Note     *string
}

// Apply merges the patch onto tx.
func (pt FundTransactionPatch) Apply(tx *FundTransaction) {
	if pt.Kind != nil {
		tx.Kind = *pt.Kind
	}
	if pt.Currency != nil {
		tx.Currency = *pt.Currency
	}
	if pt.Amount != nil {
		tx.Amount = *pt.Amount
	}
	if pt.Note != nil {
		tx.Note = *pt.Note
	}
}

// SettingsPatch mutates the Settings object in place.
type SettingsPatch struct {
	BusinessName    *string
	OwnerName       *string
	Phone           *string
	Address         *string
	DefaultCurrency *Currency
	DefaultTaxRate  *float64
	Language        *string
}

// Apply merges the patch onto s.
func (pt SettingsPatch) Apply(s *Settings) {
	if pt.BusinessName != nil {
		s.BusinessName = *pt.BusinessName
	}
	if pt.OwnerName != nil {
		s.OwnerName = *pt.OwnerName
	}
	if pt.Phone != nil {
		s.Phone = *pt.Phone
	}
	if pt.Address != nil {
		s.Address = *pt.Address
	}
	if pt.DefaultCurrency != nil {
		s.DefaultCurrency = *pt.DefaultCurrency
	}
	if pt.DefaultTaxRate != nil {
		s.DefaultTaxRate = *pt.DefaultTaxRate
	}
	if pt.Language != nil {
		s.Language = *pt.Language
	}
}
