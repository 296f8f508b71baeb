package services

import (
	"context"
	"errors"
	"testing"

	"truckbooks/internal/core"
	"truckbooks/internal/events"
	"truckbooks/internal/ledger"
	"truckbooks/internal/store"
)

type capturingPublisher struct {
	published []*events.RecordEvent
	fail      bool
}

func (p *capturingPublisher) PublishRecordEvent(_ context.Context, e *events.RecordEvent) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.published = append(p.published, e)
	return nil
}

func newTestService(pub events.Publisher) *RecordService {
	return NewRecordService(ledger.New(store.NewMemoryStore()), pub)
}

func TestCreateInvoicePublishesEvent(t *testing.T) {
	ctx := context.Background()
	pub := &capturingPublisher{}
	svc := newTestService(pub)

	inv, err := svc.CreateInvoice(ctx, core.Invoice{
		InvoiceNumber: "1001",
		CustomerName:  "Acme",
		InvoiceDate:   core.NewDate(2026, 3, 1),
		Amount:        "1200.00",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	e := pub.published[0]
	if e.Kind != events.KindInvoice || e.Action != events.ActionAppended || e.RecordID != inv.ID {
		t.Fatalf("event = %+v", e)
	}
}

func TestCreateInvoiceRejectsInvalid(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(pub)

	_, err := svc.CreateInvoice(context.Background(), core.Invoice{InvoiceNumber: "1001"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(pub.published) != 0 {
		t.Fatal("invalid record must not publish an event")
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	repo := ledger.New(store.NewMemoryStore())
	svc := NewRecordService(repo, &capturingPublisher{fail: true})

	inv, err := svc.CreateInvoice(ctx, core.Invoice{
		InvoiceNumber: "1001",
		CustomerName:  "Acme",
		InvoiceDate:   core.NewDate(2026, 3, 1),
		Amount:        "1200.00",
	})
	if err != nil {
		t.Fatalf("local write must survive a publish failure: %v", err)
	}

	invoices, _ := repo.ListInvoices(ctx)
	if len(invoices) != 1 || invoices[0].ID != inv.ID {
		t.Fatalf("invoice not persisted: %+v", invoices)
	}
}

func TestNilPublisherDefaultsToNoop(t *testing.T) {
	svc := NewRecordService(ledger.New(store.NewMemoryStore()), nil)
	_, err := svc.CreateExpense(context.Background(), core.Expense{
		Date:     core.NewDate(2026, 2, 2),
		Amount:   "50.00",
		Category: core.CategoryTolls,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestDeleteAndUpdatePublish(t *testing.T) {
	ctx := context.Background()
	pub := &capturingPublisher{}
	svc := newTestService(pub)

	e, err := svc.CreateExpense(ctx, core.Expense{
		Date:     core.NewDate(2026, 2, 2),
		Amount:   "50.00",
		Category: core.CategoryTolls,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateExpense(ctx, e.ID, core.Expense{
		Date:     core.NewDate(2026, 2, 3),
		Amount:   "55.00",
		Category: core.CategoryTolls,
	}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatal(err)
	}

	actions := []string{}
	for _, ev := range pub.published {
		actions = append(actions, ev.Action)
	}
	want := []string{events.ActionAppended, events.ActionUpdated, events.ActionRemoved}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", actions, want)
		}
	}
}
