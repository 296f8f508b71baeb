// Package ledger is the record repository: the only component that reads or
// writes the persisted record sets. Views never touch the store directly.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"truckbooks/internal/core"
	"truckbooks/internal/store"
)

type Repository struct {
	store store.Store
	now   func() time.Time
}

func New(s store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// NewWithClock is New with an injected clock, for deterministic timestamps
// in tests.
func NewWithClock(s store.Store, now func() time.Time) *Repository {
	return &Repository{store: s, now: now}
}

// newID derives an opaque unique token from the creation instant.
func (r *Repository) newID() string {
	return strconv.FormatInt(r.now().UnixNano(), 36)
}

// GetCompanyProfile returns the stored profile. Missing fields come back as
// empty strings, never as an error.
func (r *Repository) GetCompanyProfile(ctx context.Context) (core.CompanyProfile, error) {
	var p core.CompanyProfile
	var err error
	if p.Name, err = r.getString(ctx, store.KeyCompanyName); err != nil {
		return p, err
	}
	if p.Address, err = r.getString(ctx, store.KeyCompanyAddress); err != nil {
		return p, err
	}
	if p.CarrierID, err = r.getString(ctx, store.KeyCarrierID); err != nil {
		return p, err
	}
	if p.NotificationEmail, err = r.getString(ctx, store.KeyUserEmail); err != nil {
		return p, err
	}
	return p, nil
}

// SetCompanyProfile overwrites the whole profile. There is no history.
func (r *Repository) SetCompanyProfile(ctx context.Context, p core.CompanyProfile) error {
	fields := []struct {
		key   string
		value string
	}{
		{store.KeyCompanyName, p.Name},
		{store.KeyCompanyAddress, p.Address},
		{store.KeyCarrierID, p.CarrierID},
		{store.KeyUserEmail, p.NotificationEmail},
	}
	for _, f := range fields {
		if err := r.store.Set(ctx, f.key, f.value); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}
	return nil
}

// ListInvoices returns the invoice history, newest first. A missing or
// malformed persisted value decodes as an empty list so a corrupt payload
// never locks the user out.
func (r *Repository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	return loadList[core.Invoice](ctx, r, store.KeyInvoiceHistory)
}

// AppendInvoice assigns id, timestamp and default payment status when absent,
// snapshots the current company profile into the invoice, prepends it and
// persists. The stored invoice is returned.
func (r *Repository) AppendInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	if inv.ID == "" {
		inv.ID = r.newID()
	}
	if inv.Timestamp.IsZero() {
		inv.Timestamp = r.now()
	}
	if inv.PaymentStatus == "" {
		inv.PaymentStatus = core.PaymentUnpaid
	}

	profile, err := r.GetCompanyProfile(ctx)
	if err != nil {
		return core.Invoice{}, err
	}
	inv.CompanyName = profile.Name
	inv.CompanyAddress = profile.Address
	inv.CarrierID = profile.CarrierID
	inv.NotificationEmail = profile.NotificationEmail

	invoices, err := r.ListInvoices(ctx)
	if err != nil {
		return core.Invoice{}, err
	}
	invoices = append([]core.Invoice{inv}, invoices...)
	if err := r.saveList(ctx, store.KeyInvoiceHistory, invoices); err != nil {
		return core.Invoice{}, err
	}

	slog.InfoContext(ctx, "Invoice saved",
		"id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"customer", inv.CustomerName,
		"amount", inv.Amount)
	return inv, nil
}

// RemoveInvoice deletes by id. Unknown ids are a silent no-op.
func (r *Repository) RemoveInvoice(ctx context.Context, id string) error {
	invoices, err := r.ListInvoices(ctx)
	if err != nil {
		return err
	}
	kept := invoices[:0]
	for _, inv := range invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	return r.saveList(ctx, store.KeyInvoiceHistory, kept)
}

// UpdateInvoice applies mutate to the invoice with the given id and persists.
// Unknown ids are a silent no-op.
func (r *Repository) UpdateInvoice(ctx context.Context, id string, mutate func(*core.Invoice)) error {
	invoices, err := r.ListInvoices(ctx)
	if err != nil {
		return err
	}
	for i := range invoices {
		if invoices[i].ID == id {
			mutate(&invoices[i])
			invoices[i].ID = id // the id itself is immutable
			return r.saveList(ctx, store.KeyInvoiceHistory, invoices)
		}
	}
	return nil
}

// SetPaymentStatus is the only mutation path for an invoice's payment state.
func (r *Repository) SetPaymentStatus(ctx context.Context, id string, paid bool) error {
	status := core.PaymentUnpaid
	if paid {
		status = core.PaymentPaid
	}
	return r.UpdateInvoice(ctx, id, func(inv *core.Invoice) {
		inv.PaymentStatus = status
	})
}

// ListExpenses mirrors ListInvoices for the expense record set.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return loadList[core.Expense](ctx, r, store.KeyExpenses)
}

func (r *Repository) AppendExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = r.newID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now()
	}

	expenses, err := r.ListExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	expenses = append([]core.Expense{e}, expenses...)
	if err := r.saveList(ctx, store.KeyExpenses, expenses); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"vendor", e.Vendor,
		"category", string(e.Category),
		"amount", e.Amount)
	return e, nil
}

func (r *Repository) RemoveExpense(ctx context.Context, id string) error {
	expenses, err := r.ListExpenses(ctx)
	if err != nil {
		return err
	}
	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return r.saveList(ctx, store.KeyExpenses, kept)
}

// UpdateExpense replaces fields of an existing expense in place, keeping its
// position in the history. Unknown ids are a silent no-op.
func (r *Repository) UpdateExpense(ctx context.Context, id string, mutate func(*core.Expense)) error {
	expenses, err := r.ListExpenses(ctx)
	if err != nil {
		return err
	}
	for i := range expenses {
		if expenses[i].ID == id {
			mutate(&expenses[i])
			expenses[i].ID = id
			return r.saveList(ctx, store.KeyExpenses, expenses)
		}
	}
	return nil
}

func (r *Repository) getString(ctx context.Context, key string) (string, error) {
	v, _, err := r.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

// loadList decodes a persisted record set. Absent or malformed payloads
// yield an empty list; only store-level failures propagate.
func loadList[T any](ctx context.Context, r *Repository, key string) ([]T, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		slog.WarnContext(ctx, "Malformed record set, treating as empty",
			"key", key, "error", err)
		return nil, nil
	}
	return list, nil
}

func (r *Repository) saveList(ctx context.Context, key string, list any) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
