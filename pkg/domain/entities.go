// Package domain defines the persistent entities, value types, and derived
// computations used by siteledger.
package domain

import "time"

// Base contains the fields common to every stored record. IDs are assigned
// once at creation and never reassigned; CreatedAt is assigned once and
// serialized as RFC 3339.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectStatus enumerates project workflow states.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

// TaskStatus enumerates task workflow states.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// InvoiceStatus enumerates invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

// Currency identifies one of the two ledger currencies.
type Currency string

const (
	CurrencyUSD Currency = "usd"
	CurrencySYP Currency = "syp"
)

// FundKind distinguishes fund ledger entry directions.
type FundKind string

const (
	FundDeposit FundKind = "deposit"
	FundExpense FundKind = "expense"
)

// Action indicates the type of modification recorded in the activity log.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Project is a contracting job tracked by the system.
type Project struct {
	Base
	Name      string        `json:"name"`
	ClientID  *string       `json:"clientId,omitempty"`
	Status    ProjectStatus `json:"status"`
	Budget    float64       `json:"budget,omitempty"`
	Currency  Currency      `json:"currency,omitempty"`
	StartDate *time.Time    `json:"startDate,omitempty"`
	EndDate   *time.Time    `json:"endDate,omitempty"`
	Address   string        `json:"address,omitempty"`
	Notes     string        `json:"notes,omitempty"`
}

// Task is a unit of work scoped to a project.
type Task struct {
	Base
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	WorkerID    *string    `json:"workerId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Client is a customer the business invoices.
type Client struct {
	Base
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Worker is a crew member with billing rates.
type Worker struct {
	Base
	Name       string  `json:"name"`
	Phone      string  `json:"phone,omitempty"`
	Role       string  `json:"role,omitempty"`
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	DailyRate  float64 `json:"dailyRate,omitempty"`
	Active     bool    `json:"active"`
}

// InvoiceItem is one billed line on an invoice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Invoice bills a client for project work. Subtotal, TaxAmount, and Total are
// recomputed from Items and TaxRate on every mutation that touches either.
type Invoice struct {
	Base
	ProjectID string        `json:"projectId"`
	ClientID  *string       `json:"clientId,omitempty"`
	Number    string        `json:"number,omitempty"`
	Items     []InvoiceItem `json:"items"`
	TaxRate   float64       `json:"taxRate"`
	Subtotal  float64       `json:"subtotal"`
	TaxAmount float64       `json:"taxAmount"`
	Total     float64       `json:"total"`
	Status    InvoiceStatus `json:"status"`
	IssuedAt  *time.Time    `json:"issuedAt,omitempty"`
	DueAt     *time.Time    `json:"dueAt,omitempty"`
	Notes     string        `json:"notes,omitempty"`
}

// Payment records money received against a project.
type Payment struct {
	Base
	ProjectID string     `json:"projectId"`
	InvoiceID *string    `json:"invoiceId,omitempty"`
	Amount    float64    `json:"amount"`
	Currency  Currency   `json:"currency,omitempty"`
	Method    string     `json:"method,omitempty"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// Expense records money spent on a project.
type Expense struct {
	Base
	ProjectID   string     `json:"projectId"`
	Category    string     `json:"category,omitempty"`
	Amount      float64    `json:"amount"`
	Currency    Currency   `json:"currency,omitempty"`
	SpentAt     *time.Time `json:"spentAt,omitempty"`
	Description string     `json:"description,omitempty"`
}

// WorkerLog records a day of crew labor. TotalCost is computed once at
// creation from the counts and rate in effect and is intentionally never
// recomputed, so past logs keep their historical cost.
type WorkerLog struct {
	Base
	ProjectID      string     `json:"projectId"`
	WorkerID       *string    `json:"workerId,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	WorkersCount   int        `json:"workersCount"`
	HoursPerWorker float64    `json:"hoursPerWorker"`
	HourlyRate     float64    `json:"hourlyRate"`
	TotalCost      float64    `json:"totalCost"`
	Notes          string     `json:"notes,omitempty"`
}

// DailyReport captures an end-of-day site summary.
type DailyReport struct {
	Base
	ProjectID string     `json:"projectId"`
	Date      *time.Time `json:"date,omitempty"`
	Summary   string     `json:"summary"`
	Weather   string     `json:"weather,omitempty"`
	CrewCount int        `json:"crewCount,omitempty"`
	Issues    string     `json:"issues,omitempty"`
}

// Notification is an advisory message surfaced to the user.
type Notification struct {
	Base
	ProjectID *string `json:"projectId,omitempty"`
	Kind      string  `json:"kind,omitempty"`
	Title     string  `json:"title"`
	Message   string  `json:"message,omitempty"`
	Read      bool    `json:"read"`
}

// ActivityEvent is one append-only entry in the activity log.
type ActivityEvent struct {
	Base
	Resource  Resource `json:"resource"`
	EntityID  string   `json:"entityId"`
	Action    Action   `json:"action"`
	Summary   string   `json:"summary,omitempty"`
	ProjectID *string  `json:"projectId,omitempty"`
}

// PermissionUser is a stored user record. Nothing in the storage layer gates
// on roles; the record set is plain data.
type PermissionUser struct {
	Base
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	Active   bool   `json:"active"`
}

// ProjectLocation pins a project on a map.
type ProjectLocation struct {
	Base
	ProjectID string  `json:"projectId"`
	Label     string  `json:"label,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// FundTransaction is one entry in a project's dual-currency fund ledger.
type FundTransaction struct {
	Base
	ProjectID string   `json:"projectId"`
	Kind      FundKind `json:"kind"`
	Currency  Currency `json:"currency"`
	Amount    float64  `json:"amount"`
	Note      string   `json:"note,omitempty"`
}

// FileMeta describes an uploaded binary file stored under a project's folder.
type FileMeta struct {
	Base
	ProjectID   string `json:"projectId"`
	FileName    string `json:"fileName"`
	Key         string `json:"key"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Settings is the single-object settings resource. Every field is optional;
// hand-edited documents with missing fields must decode cleanly.
type Settings struct {
	BusinessName    string   `json:"businessName,omitempty"`
	OwnerName       string   `json:"ownerName,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Address         string   `json:"address,omitempty"`
	DefaultCurrency Currency `json:"defaultCurrency,omitempty"`
	DefaultTaxRate  float64  `json:"defaultTaxRate,omitempty"`
	Language        string   `json:"language,omitempty"`
}
