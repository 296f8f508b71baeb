// Package report computes the derived dashboard views: income/expense
// totals, month-by-month rollups, category breakdowns and the overdue set.
// Every view is a full recompute over the loaded record sets; nothing is
// cached or persisted.
package report

import (
	"sort"
	"time"

	"truckbooks/internal/core"
)

// Totals is the headline dashboard rollup. Amounts that fail to parse count
// as zero so one corrupt record cannot blank the whole dashboard.
type Totals struct {
	IncomeCents  int64 `json:"incomeCents"`
	ExpenseCents int64 `json:"expenseCents"`
	NetCents     int64 `json:"netCents"`
}

func ComputeTotals(invoices []core.Invoice, expenses []core.Expense) Totals {
	var t Totals
	for _, inv := range invoices {
		t.IncomeCents += core.CentsOrZero(inv.Amount)
	}
	for _, e := range expenses {
		t.ExpenseCents += core.CentsOrZero(e.Amount)
	}
	t.NetCents = t.IncomeCents - t.ExpenseCents
	return t
}

// MonthRollup is one month's activity within a year.
type MonthRollup struct {
	Month        time.Month `json:"month"`
	IncomeCents  int64      `json:"incomeCents"`
	ExpenseCents int64      `json:"expenseCents"`
	ProfitCents  int64      `json:"profitCents"`
}

// MonthlyBreakdown rolls up the twelve calendar months of year, drops the
// months with no invoices and no expenses, and returns the rest most recent
// first. Invoices bucket by creation instant, expenses by their date field.
func MonthlyBreakdown(invoices []core.Invoice, expenses []core.Expense, year int) []MonthRollup {
	var income, expense [13]int64
	var active [13]bool

	for _, inv := range invoices {
		ts := inv.Timestamp.UTC()
		if ts.Year() != year {
			continue
		}
		m := ts.Month()
		income[m] += core.CentsOrZero(inv.Amount)
		active[m] = true
	}
	for _, e := range expenses {
		if e.Date.IsZero() || e.Date.Year() != year {
			continue
		}
		m := e.Date.Month()
		expense[m] += core.CentsOrZero(e.Amount)
		active[m] = true
	}

	var out []MonthRollup
	for m := time.December; m >= time.January; m-- {
		if !active[m] {
			continue
		}
		out = append(out, MonthRollup{
			Month:        m,
			IncomeCents:  income[m],
			ExpenseCents: expense[m],
			ProfitCents:  income[m] - expense[m],
		})
	}
	return out
}

// CategoryTotal is one category's summed expense amount.
type CategoryTotal struct {
	Category   core.Category `json:"category"`
	TotalCents int64         `json:"totalCents"`
}

// CategoryBreakdown sums expenses per category, largest total first. Ties
// keep the order the categories first appeared in the input.
func CategoryBreakdown(expenses []core.Expense) []CategoryTotal {
	index := make(map[core.Category]int)
	var out []CategoryTotal
	for _, e := range expenses {
		i, seen := index[e.Category]
		if !seen {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category})
		}
		out[i].TotalCents += core.CentsOrZero(e.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCents > out[j].TotalCents
	})
	return out
}

// overdueAfterDays is how long an unpaid invoice may sit past delivery.
const overdueAfterDays = 30

// IsOverdue reports whether the invoice is unpaid and its delivery date is
// 30 or more whole days before now. The flag is derived on every read and
// never stored. Invoices without a delivery date are never overdue.
func IsOverdue(inv core.Invoice, now time.Time) bool {
	if inv.PaymentStatus == core.PaymentPaid || inv.DateDelivered.IsZero() {
		return false
	}
	days := int(now.UTC().Sub(inv.DateDelivered.Time).Hours() / 24)
	return days >= overdueAfterDays
}

// Overdue returns the overdue subset of invoices plus their summed amount.
func Overdue(invoices []core.Invoice, now time.Time) ([]core.Invoice, int64) {
	var out []core.Invoice
	var total int64
	for _, inv := range invoices {
		if IsOverdue(inv, now) {
			out = append(out, inv)
			total += core.CentsOrZero(inv.Amount)
		}
	}
	return out, total
}
