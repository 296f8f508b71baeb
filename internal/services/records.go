// Package services orchestrates the write path: validate, persist through
// the repository, then hand a best-effort sync event to the publisher.
// Local persistence always completes before anything leaves the machine, so
// a failed publish can never leave the store inconsistent.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"truckbooks/internal/core"
	"truckbooks/internal/events"
	"truckbooks/internal/ledger"
)

type RecordService struct {
	repo      *ledger.Repository
	publisher events.Publisher
}

func NewRecordService(repo *ledger.Repository, publisher events.Publisher) *RecordService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &RecordService{repo: repo, publisher: publisher}
}

func (s *RecordService) CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}
	stored, err := s.repo.AppendInvoice(ctx, inv)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	s.publish(ctx, events.KindInvoice, events.ActionAppended, stored.ID)
	return stored, nil
}

func (s *RecordService) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.repo.RemoveInvoice(ctx, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	s.publish(ctx, events.KindInvoice, events.ActionRemoved, id)
	return nil
}

func (s *RecordService) SetInvoicePaid(ctx context.Context, id string, paid bool) error {
	if err := s.repo.SetPaymentStatus(ctx, id, paid); err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	s.publish(ctx, events.KindInvoice, events.ActionUpdated, id)
	return nil
}

func (s *RecordService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	stored, err := s.repo.AppendExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, events.KindExpense, events.ActionAppended, stored.ID)
	return stored, nil
}

func (s *RecordService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.repo.RemoveExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, events.KindExpense, events.ActionRemoved, id)
	return nil
}

// UpdateExpense replaces the editable fields of an existing expense in
// place. Unknown ids are a silent no-op, matching the repository contract.
func (s *RecordService) UpdateExpense(ctx context.Context, id string, updated core.Expense) error {
	if err := updated.Validate(); err != nil {
		return err
	}
	err := s.repo.UpdateExpense(ctx, id, func(e *core.Expense) {
		e.Date = updated.Date
		e.Amount = updated.Amount
		e.Category = updated.Category
		e.Vendor = updated.Vendor
		e.Notes = updated.Notes
		e.Items = updated.Items
	})
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	s.publish(ctx, events.KindExpense, events.ActionUpdated, id)
	return nil
}

func (s *RecordService) publish(ctx context.Context, kind, action, id string) {
	if err := s.publisher.PublishRecordEvent(ctx, events.NewRecordEvent(kind, action, id)); err != nil {
		// The record is already persisted; sync will catch up later.
		slog.ErrorContext(ctx, "Failed to publish record event",
			"kind", kind, "action", action, "record_id", id, "error", err)
	}
}
