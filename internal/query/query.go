// Package query provides the pure read-side helpers over already-loaded
// record sets: substring filtering, category grouping and the date-range
// windows the dashboard buckets by. Nothing here touches the store.
package query

import (
	"strings"
	"time"

	"truckbooks/internal/core"
)

// Period selects a dashboard date window.
type Period string

const (
	PeriodWeekly    Period = "weekly"
	PeriodPayPeriod Period = "pay-period"
	PeriodYTD       Period = "ytd"
)

// FilterBySubstring keeps records whose selected text fields contain term,
// case-insensitively. An empty term is the identity.
func FilterBySubstring[T any](records []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	var out []T
	for _, rec := range records {
		for _, f := range fields(rec) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// InvoiceSearchFields are the fields the invoice history search matches on.
func InvoiceSearchFields(inv core.Invoice) []string {
	return []string{inv.InvoiceNumber, inv.LoadNumber, inv.CustomerName}
}

// ExpenseSearchFields are the fields the expense history search matches on.
func ExpenseSearchFields(e core.Expense) []string {
	return []string{e.Vendor, string(e.Category), e.Notes}
}

// GroupByCategory buckets expenses by category, preserving each group's
// relative order from the input.
func GroupByCategory(expenses []core.Expense) map[core.Category][]core.Expense {
	groups := make(map[core.Category][]core.Expense)
	for _, e := range expenses {
		groups[e.Category] = append(groups[e.Category], e)
	}
	return groups
}

// DateRange returns the inclusive [start, end] window for a period.
//
// weekly and pay-period are anchored to now (the pay-period grid starts at
// January 1 of now's year, in fixed 14-day windows); referenceYear only
// matters for ytd, which is also the fallback for unrecognized periods.
func DateRange(period Period, referenceYear int, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	switch period {
	case PeriodWeekly:
		back := int(now.Weekday()) - 1
		if now.Weekday() == time.Sunday {
			back = 6
		}
		start := startOfDay(now.AddDate(0, 0, -back))
		return start, endOfDay(start.AddDate(0, 0, 6))
	case PeriodPayPeriod:
		anchor := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		idx := int(now.Sub(anchor).Hours() / 24 / 14)
		start := anchor.AddDate(0, 0, idx*14)
		return start, endOfDay(start.AddDate(0, 0, 13))
	default:
		start := time.Date(referenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, endOfDay(time.Date(referenceYear, time.December, 31, 0, 0, 0, 0, time.UTC))
	}
}

// InvoiceInRange reports whether the invoice's creation instant falls in
// [start, end] inclusive.
func InvoiceInRange(inv core.Invoice, start, end time.Time) bool {
	return inRange(inv.Timestamp, start, end)
}

// ExpenseInRange reports whether the expense's date falls in [start, end]
// inclusive.
func ExpenseInRange(e core.Expense, start, end time.Time) bool {
	return inRange(e.Date.Time, start, end)
}

func inRange(t time.Time, start, end time.Time) bool {
	t = t.UTC()
	return !t.Before(start) && !t.After(end)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
