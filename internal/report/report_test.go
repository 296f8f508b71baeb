package report

import (
	"testing"
	"time"

	"truckbooks/internal/core"
)

func TestComputeTotals(t *testing.T) {
	invoices := []core.Invoice{
		{Amount: "1850.00"},
		{Amount: "2200.50"},
	}
	expenses := []core.Expense{
		{Amount: "600.25"},
		{Amount: "150.00"},
	}

	got := ComputeTotals(invoices, expenses)
	if got.IncomeCents != 405050 {
		t.Fatalf("income = %d, want 405050", got.IncomeCents)
	}
	if got.ExpenseCents != 75025 {
		t.Fatalf("expenses = %d, want 75025", got.ExpenseCents)
	}
	if got.NetCents != got.IncomeCents-got.ExpenseCents {
		t.Fatalf("net %d != income - expenses", got.NetCents)
	}
}

func TestComputeTotalsEmptyAndCorrupt(t *testing.T) {
	if got := ComputeTotals(nil, nil); got != (Totals{}) {
		t.Fatalf("empty totals = %+v, want all zero", got)
	}

	// A corrupt amount counts as zero instead of failing the rollup.
	invoices := []core.Invoice{{Amount: "1000.00"}, {Amount: "NaN dollars"}}
	got := ComputeTotals(invoices, nil)
	if got.IncomeCents != 100000 {
		t.Fatalf("income with corrupt record = %d, want 100000", got.IncomeCents)
	}
}

func TestMonthlyBreakdownOmitsAndOrders(t *testing.T) {
	invoices := []core.Invoice{
		{Amount: "2000.00", Timestamp: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)},
	}
	expenses := []core.Expense{
		{Amount: "300.00", Date: core.NewDate(2026, 3, 5)},
	}

	months := MonthlyBreakdown(invoices, expenses, 2026)
	if len(months) != 2 {
		t.Fatalf("got %d months, want 2 (empty months omitted)", len(months))
	}
	if months[0].Month != time.March || months[1].Month != time.January {
		t.Fatalf("order = [%v, %v], want [March, January]", months[0].Month, months[1].Month)
	}
	if months[0].ExpenseCents != 30000 || months[0].IncomeCents != 0 {
		t.Fatalf("march = %+v", months[0])
	}
	if months[1].IncomeCents != 200000 || months[1].ProfitCents != 200000 {
		t.Fatalf("january = %+v", months[1])
	}
}

func TestMonthlyBreakdownFiltersYear(t *testing.T) {
	invoices := []core.Invoice{
		{Amount: "500.00", Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	if months := MonthlyBreakdown(invoices, nil, 2026); len(months) != 0 {
		t.Fatalf("other-year invoice leaked in: %+v", months)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	expenses := []core.Expense{
		{Category: core.CategoryTolls, Amount: "100.00"},
		{Category: core.CategoryFuel, Amount: "900.00"},
		{Category: core.CategoryFood, Amount: "100.00"},
		{Category: core.CategoryFuel, Amount: "350.00"},
	}
	got := CategoryBreakdown(expenses)
	if len(got) != 3 {
		t.Fatalf("got %d categories, want 3", len(got))
	}
	if got[0].Category != core.CategoryFuel || got[0].TotalCents != 125000 {
		t.Fatalf("top category = %+v", got[0])
	}
	// Tolls and food tie at 100.00; tolls appeared first and stays first.
	if got[1].Category != core.CategoryTolls || got[2].Category != core.CategoryFood {
		t.Fatalf("tie order = [%s, %s], want [tolls, food]", got[1].Category, got[2].Category)
	}
}

func TestIsOverdueBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	at := func(daysAgo int) core.Date {
		return core.DateOf(now.AddDate(0, 0, -daysAgo))
	}

	cases := []struct {
		name string
		inv  core.Invoice
		want bool
	}{
		{"31 days unpaid", core.Invoice{PaymentStatus: core.PaymentUnpaid, DateDelivered: at(31)}, true},
		{"31 days paid", core.Invoice{PaymentStatus: core.PaymentPaid, DateDelivered: at(31)}, false},
		{"exactly 30 days", core.Invoice{PaymentStatus: core.PaymentUnpaid, DateDelivered: at(30)}, true},
		{"29 days", core.Invoice{PaymentStatus: core.PaymentUnpaid, DateDelivered: at(29)}, false},
		{"no delivery date", core.Invoice{PaymentStatus: core.PaymentUnpaid}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOverdue(tc.inv, now); got != tc.want {
				t.Fatalf("IsOverdue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOverdueSetAndTotal(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	invoices := []core.Invoice{
		{ID: "a", Amount: "1000.00", PaymentStatus: core.PaymentUnpaid, DateDelivered: core.DateOf(now.AddDate(0, 0, -45))},
		{ID: "b", Amount: "500.00", PaymentStatus: core.PaymentPaid, DateDelivered: core.DateOf(now.AddDate(0, 0, -45))},
		{ID: "c", Amount: "750.00", PaymentStatus: core.PaymentUnpaid, DateDelivered: core.DateOf(now.AddDate(0, 0, -5))},
		{ID: "d", Amount: "250.00", PaymentStatus: core.PaymentUnpaid, DateDelivered: core.DateOf(now.AddDate(0, 0, -60))},
	}

	overdue, total := Overdue(invoices, now)
	if len(overdue) != 2 || overdue[0].ID != "a" || overdue[1].ID != "d" {
		t.Fatalf("overdue set = %+v", overdue)
	}
	if total != 125000 {
		t.Fatalf("overdue total = %d, want 125000", total)
	}
}
