package core

import (
	"context"
	"time"

	"siteledger/pkg/domain"
)

// CreateInvoice persists a new invoice. Derived totals are computed from the
// submitted items and tax rate; any caller-supplied totals are discarded. A
// notification is raised so invoice creation is visible in the feed.
func (s *Service) CreateInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error) {
	started := time.Now()
	inv.Base = s.newBase()
	if inv.Status == "" {
		inv.Status = domain.InvoiceDraft
	}
	inv.RecomputeTotals()
	_, err := s.invoices.Mutate(ctx, func(cur []domain.Invoice) ([]domain.Invoice, error) {
		return append(cur, inv), nil
	})
	s.observe(ctx, "create_invoice", started, err)
	if err != nil {
		return domain.Invoice{}, err
	}
	s.recordActivity(ctx, domain.ResourceInvoices, inv.ID, domain.ActionCreate, "invoice created: "+inv.Number, &inv.ProjectID)
	s.notify(ctx, &inv.ProjectID, "invoice_created", "Invoice created", inv.Number)
	return inv, nil
}

// UpdateInvoice shallow-merges the patch onto the matching invoice. Totals are
// recomputed whenever the patch touches items or the tax rate.
func (s *Service) UpdateInvoice(ctx context.Context, id string, patch domain.InvoicePatch) (domain.Invoice, bool, error) {
	started := time.Now()
	var updated domain.Invoice
	var found bool
	_, err := s.invoices.Mutate(ctx, func(cur []domain.Invoice) ([]domain.Invoice, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_invoice", started, err)
	if err != nil {
		return domain.Invoice{}, false, err
	}
	if found {
		s.recordActivity(ctx, domain.ResourceInvoices, id, domain.ActionUpdate, "invoice updated: "+updated.Number, &updated.ProjectID)
	}
	return updated, found, nil
}

// DeleteInvoice removes the invoice by id.
func (s *Service) DeleteInvoice(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed domain.Invoice
	var ok bool
	_, err := s.invoices.Mutate(ctx, func(cur []domain.Invoice) ([]domain.Invoice, error) {
		next := cur[:0]
		for _, inv := range cur {
			if inv.ID == id {
				removed = inv
				ok = true
				continue
			}
			next = append(next, inv)
		}
		return next, nil
	})
	s.observe(ctx, "delete_invoice", started, err)
	if err != nil {
		return false, err
	}
	if ok {
		s.recordActivity(ctx, domain.ResourceInvoices, id, domain.ActionDelete, "invoice deleted: "+removed.Number, &removed.ProjectID)
	}
	return ok, nil
}

// ListInvoices returns invoices, optionally filtered by project.
func (s *Service) ListInvoices(ctx context.Context, projectID string) ([]domain.Invoice, error) {
	list, err := s.invoices.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.Invoice, 0, len(list))
	for _, inv := range list {
		if inv.ProjectID == projectID {
			out = append(out, inv)
		}
	}
	return out, nil
}

// CreatePayment records money received against a project.
func (s *Service) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	started := time.Now()
	p.Base = s.newBase()
	if p.Currency == "" {
		p.Currency = domain.CurrencyUSD
	}
	_, err := s.payments.Mutate(ctx, func(cur []domain.Payment) ([]domain.Payment, error) {
		return append(cur, p), nil
	})
	s.observe(ctx, "create_payment", started, err)
	if err != nil {
		return domain.Payment{}, err
	}
	s.recordActivity(ctx, domain.ResourcePayments, p.ID, domain.ActionCreate, "payment recorded", &p.ProjectID)
	return p, nil
}

// UpdatePayment shallow-merges the patch onto the matching payment.
func (s *Service) UpdatePayment(ctx context.Context, id string, patch domain.PaymentPatch) (domain.Payment, bool, error) {
	started := time.Now()
	var updated domain.Payment
	var found bool
	_, err := s.payments.Mutate(ctx, func(cur []domain.Payment) ([]domain.Payment, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_payment", started, err)
	return updated, found, err
}

// DeletePayment removes the payment by id.
func (s *Service) DeletePayment(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.payments.Mutate(ctx, func(cur []domain.Payment) ([]domain.Payment, error) {
		next := cur[:0]
		for _, p := range cur {
			if p.ID == id {
				removed = true
				continue
			}
			next = append(next, p)
		}
		return next, nil
	})
	s.observe(ctx, "delete_payment", started, err)
	return removed, err
}

// ListPayments returns payments, optionally filtered by project.
func (s *Service) ListPayments(ctx context.Context, projectID string) ([]domain.Payment, error) {
	list, err := s.payments.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.Payment, 0, len(list))
	for _, p := range list {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreateExpense records money spent on a project.
func (s *Service) CreateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	started := time.Now()
	e.Base = s.newBase()
	if e.Currency == "" {
		e.Currency = domain.CurrencyUSD
	}
	_, err := s.expenses.Mutate(ctx, func(cur []domain.Expense) ([]domain.Expense, error) {
		return append(cur, e), nil
	})
	s.observe(ctx, "create_expense", started, err)
	if err != nil {
		return domain.Expense{}, err
	}
	s.recordActivity(ctx, domain.ResourceExpenses, e.ID, domain.ActionCreate, "expense recorded: "+e.Category, &e.ProjectID)
	return e, nil
}

// UpdateExpense shallow-merges the patch onto the matching expense.
func (s *Service) UpdateExpense(ctx context.Context, id string, patch domain.ExpensePatch) (domain.Expense, bool, error) {
	started := time.Now()
	var updated domain.Expense
	var found bool
	_, err := s.expenses.Mutate(ctx, func(cur []domain.Expense) ([]domain.Expense, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_expense", started, err)
	return updated, found, err
}

// DeleteExpense removes the expense by id.
func (s *Service) DeleteExpense(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.expenses.Mutate(ctx, func(cur []domain.Expense) ([]domain.Expense, error) {
		next := cur[:0]
		for _, e := range cur {
			if e.ID == id {
				removed = true
				continue
			}
			next = append(next, e)
		}
		return next, nil
	})
	s.observe(ctx, "delete_expense", started, err)
	return removed, err
}

// ListExpenses returns expenses, optionally filtered by project.
func (s *Service) ListExpenses(ctx context.Context, projectID string) ([]domain.Expense, error) {
	list, err := s.expenses.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.Expense, 0, len(list))
	for _, e := range list {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

// CreateWorkerLog records a day of crew labor. TotalCost is computed once here
// from the submitted counts and rate; later rate changes never rewrite it.
func (s *Service) CreateWorkerLog(ctx context.Context, wl domain.WorkerLog) (domain.WorkerLog, error) {
	started := time.Now()
	wl.Base = s.newBase()
	wl.TotalCost = domain.WorkerLogCost(wl.WorkersCount, wl.HoursPerWorker, wl.HourlyRate)
	_, err := s.workerLogs.Mutate(ctx, func(cur []domain.WorkerLog) ([]domain.WorkerLog, error) {
		return append(cur, wl), nil
	})
	s.observe(ctx, "create_worker_log", started, err)
	if err != nil {
		return domain.WorkerLog{}, err
	}
	s.recordActivity(ctx, domain.ResourceWorkerLogs, wl.ID, domain.ActionCreate, "labor logged", &wl.ProjectID)
	return wl, nil
}

// UpdateWorkerLog shallow-merges the patch onto the matching log. Only date
// and notes are patchable; the cost fields stay frozen.
func (s *Service) UpdateWorkerLog(ctx context.Context, id string, patch domain.WorkerLogPatch) (domain.WorkerLog, bool, error) {
	started := time.Now()
	var updated domain.WorkerLog
	var found bool
	_, err := s.workerLogs.Mutate(ctx, func(cur []domain.WorkerLog) ([]domain.WorkerLog, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_worker_log", started, err)
	return updated, found, err
}

// DeleteWorkerLog removes the log by id.
func (s *Service) DeleteWorkerLog(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.workerLogs.Mutate(ctx, func(cur []domain.WorkerLog) ([]domain.WorkerLog, error) {
		next := cur[:0]
		for _, wl := range cur {
			if wl.ID == id {
				removed = true
				continue
			}
			next = append(next, wl)
		}
		return next, nil
	})
	s.observe(ctx, "delete_worker_log", started, err)
	return removed, err
}

// ListWorkerLogs returns labor logs, optionally filtered by project.
func (s *Service) ListWorkerLogs(ctx context.Context, projectID string) ([]domain.WorkerLog, error) {
	list, err := s.workerLogs.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.WorkerLog, 0, len(list))
	for _, wl := range list {
		if wl.ProjectID == projectID {
			out = append(out, wl)
		}
	}
	return out, nil
}

// AddFundTransaction appends one entry to a project's dual-currency fund
// ledger. The balance itself is never stored; it is folded from entries on
// read.
func (s *Service) AddFundTransaction(ctx context.Context, tx domain.FundTransaction) (domain.FundTransaction, error) {
	started := time.Now()
	tx.Base = s.newBase()
	if tx.Kind == "" {
		tx.Kind = domain.FundDeposit
	}
	if tx.Currency == "" {
		tx.Currency = domain.CurrencyUSD
	}
	_, err := s.fund.Mutate(ctx, func(cur []domain.FundTransaction) ([]domain.FundTransaction, error) {
		return append(cur, tx), nil
	})
	s.observe(ctx, "add_fund_transaction", started, err)
	if err != nil {
		return domain.FundTransaction{}, err
	}
	s.recordActivity(ctx, domain.ResourceSmartFund, tx.ID, domain.ActionCreate, "fund "+string(tx.Kind)+" recorded", &tx.ProjectID)
	return tx, nil
}

// UpdateFundTransaction shallow-merges the patch onto the matching entry.
func (s *Service) UpdateFundTransaction(ctx context.Context, id string, patch domain.FundTransactionPatch) (domain.FundTransaction, bool, error) {
	started := time.Now()
	var updated domain.FundTransaction
	var found bool
	_, err := s.fund.Mutate(ctx, func(cur []domain.FundTransaction) ([]domain.FundTransaction, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_fund_transaction", started, err)
	return updated, found, err
}

// DeleteFundTransaction removes the ledger entry by id.
func (s *Service) DeleteFundTransaction(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.fund.Mutate(ctx, func(cur []domain.FundTransaction) ([]domain.FundTransaction, error) {
		next := cur[:0]
		for _, tx := range cur {
			if tx.ID == id {
				removed = true
				continue
			}
			next = append(next, tx)
		}
		return next, nil
	})
	s.observe(ctx, "delete_fund_transaction", started, err)
	return removed, err
}

// ListFundTransactions returns ledger entries, optionally filtered by project.
func (s *Service) ListFundTransactions(ctx context.Context, projectID string) ([]domain.FundTransaction, error) {
	list, err := s.fund.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.FundTransaction, 0, len(list))
	for _, tx := range list {
		if tx.ProjectID == projectID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FundBalance folds the project's ledger entries into per-currency balances.
// Deposits add, expenses subtract; the two currencies never convert or mix.
func (s *Service) FundBalance(ctx context.Context, projectID string) (domain.Balance, error) {
	list, err := s.fund.Read(ctx)
	if err != nil {
		return domain.Balance{}, err
	}
	return domain.FundBalanceOf(list, projectID), nil
}
