package domain

// InvoiceTotals computes subtotal, tax amount, and total from line items and
// a percentage tax rate.
func InvoiceTotals(items []InvoiceItem, taxRate float64) (subtotal, tax, total float64) {
	for _, it := range items {
		subtotal += it.Quantity * it.UnitPrice
	}
	tax = subtotal * taxRate / 100
	return subtotal, tax, subtotal + tax
}

// RecomputeTotals refreshes the derived totals on the invoice from its
// current items and tax rate.
func (inv *Invoice) RecomputeTotals() {
	inv.Subtotal, inv.TaxAmount, inv.Total = InvoiceTotals(inv.Items, inv.TaxRate)
}

// WorkerLogCost computes the labor cost of one log entry. The result is
// stored on the record at creation and never recomputed afterwards.
func WorkerLogCost(workersCount int, hoursPerWorker, hourlyRate float64) float64 {
	return float64(workersCount) * hoursPerWorker * hourlyRate
}

// Balance is a project's fund position per currency.
type Balance struct {
	USD float64 `json:"usd"`
	SYP float64 `json:"syp"`
}

// FundBalanceOf folds the given ledger entries for one project into a
// per-currency balance. Deposits add, expenses subtract. The fold runs on
// every read; there is no persisted running balance.
func FundBalanceOf(entries []FundTransaction, projectID string) Balance {
	var b Balance
	for _, tx := range entries {
		if tx.ProjectID != projectID {
			continue
		}
		amount := tx.Amount
		if tx.Kind == FundExpense {
			amount = -amount
		}
		switch tx.Currency {
		case CurrencyUSD:
			b.USD += amount
		case CurrencySYP:
			b.SYP += amount
		}
	}
	return b
}
