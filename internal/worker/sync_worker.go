// Package worker drains record events from the queue and exports the
// referenced records. It always re-reads the record from the repository, so
// the export reflects current local state, not the event payload.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"truckbooks/internal/core"
	"truckbooks/internal/events"
	"truckbooks/internal/ledger"
)

// RecordExporter is the export destination (Google Sheets in production).
type RecordExporter interface {
	ExportInvoice(ctx context.Context, inv core.Invoice) error
	ExportExpense(ctx context.Context, e core.Expense) error
}

type SyncWorker struct {
	repo     *ledger.Repository
	exporter RecordExporter
}

func NewSyncWorker(repo *ledger.Repository, exporter RecordExporter) *SyncWorker {
	return &SyncWorker{repo: repo, exporter: exporter}
}

// HandleRecordEvent processes one queued event. Events for records that no
// longer exist are dropped, and removals are skipped outright: the export
// destination is append-only.
func (w *SyncWorker) HandleRecordEvent(ctx context.Context, e *events.RecordEvent) error {
	if e.Action == events.ActionRemoved {
		slog.InfoContext(ctx, "Skipping removal event, export is append-only",
			"kind", e.Kind, "record_id", e.RecordID)
		return nil
	}

	switch e.Kind {
	case events.KindInvoice:
		return w.exportInvoice(ctx, e.RecordID)
	case events.KindExpense:
		return w.exportExpense(ctx, e.RecordID)
	default:
		slog.WarnContext(ctx, "Unknown record kind in event", "kind", e.Kind)
		return nil
	}
}

func (w *SyncWorker) exportInvoice(ctx context.Context, id string) error {
	invoices, err := w.repo.ListInvoices(ctx)
	if err != nil {
		return fmt.Errorf("load invoices: %w", err)
	}
	for _, inv := range invoices {
		if inv.ID == id {
			if err := w.exporter.ExportInvoice(ctx, inv); err != nil {
				return fmt.Errorf("export invoice %s: %w", id, err)
			}
			return nil
		}
	}
	slog.InfoContext(ctx, "Invoice gone before export, dropping event", "record_id", id)
	return nil
}

func (w *SyncWorker) exportExpense(ctx context.Context, id string) error {
	expenses, err := w.repo.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	for _, exp := range expenses {
		if exp.ID == id {
			if err := w.exporter.ExportExpense(ctx, exp); err != nil {
				return fmt.Errorf("export expense %s: %w", id, err)
			}
			return nil
		}
	}
	slog.InfoContext(ctx, "Expense gone before export, dropping event", "record_id", id)
	return nil
}

// ExportSnapshot pushes every current record once, oldest first so the sheet
// reads in chronological order. Used on worker startup to backfill.
func (w *SyncWorker) ExportSnapshot(ctx context.Context) error {
	invoices, err := w.repo.ListInvoices(ctx)
	if err != nil {
		return fmt.Errorf("load invoices: %w", err)
	}
	for i := len(invoices) - 1; i >= 0; i-- {
		if err := w.exporter.ExportInvoice(ctx, invoices[i]); err != nil {
			return fmt.Errorf("export invoice %s: %w", invoices[i].ID, err)
		}
	}

	expenses, err := w.repo.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	for i := len(expenses) - 1; i >= 0; i-- {
		if err := w.exporter.ExportExpense(ctx, expenses[i]); err != nil {
			return fmt.Errorf("export expense %s: %w", expenses[i].ID, err)
		}
	}

	slog.InfoContext(ctx, "Snapshot export complete",
		"invoices", len(invoices), "expenses", len(expenses))
	return nil
}
