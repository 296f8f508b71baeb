package http

import (
	"log/slog"
	"net/http"

	"truckbooks/internal/core"
	"truckbooks/internal/query"
	"truckbooks/internal/report"
)

type dashboardResponse struct {
	Period        query.Period           `json:"period"`
	Year          int                    `json:"year"`
	Totals        report.Totals          `json:"totals"`
	Monthly       []report.MonthRollup   `json:"monthly"`
	Categories    []report.CategoryTotal `json:"categories"`
	Overdue       []core.Invoice         `json:"overdue"`
	OverdueCents  int64                  `json:"overdueCents"`
	InvoiceCount  int                    `json:"invoiceCount"`
	ExpenseCount  int                    `json:"expenseCount"`
}

// handleDashboard recomputes every rollup from the full record sets on each
// request. The period parameter picks the totals window; the monthly and
// category breakdowns always cover the selected year.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list invoices", "error", err)
		writeError(w, http.StatusInternalServerError, "error reading invoices")
		return
	}
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "error reading expenses")
		return
	}

	period := query.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = query.PeriodYTD
	}
	year := s.yearParam(r)
	now := s.now()

	start, end := query.DateRange(period, year, now)
	var rangedInvoices []core.Invoice
	for _, inv := range invoices {
		if query.InvoiceInRange(inv, start, end) {
			rangedInvoices = append(rangedInvoices, inv)
		}
	}
	var rangedExpenses []core.Expense
	for _, e := range expenses {
		if query.ExpenseInRange(e, start, end) {
			rangedExpenses = append(rangedExpenses, e)
		}
	}

	overdue, overdueCents := report.Overdue(invoices, now)
	if overdue == nil {
		overdue = []core.Invoice{}
	}
	monthly := report.MonthlyBreakdown(invoices, expenses, year)
	if monthly == nil {
		monthly = []report.MonthRollup{}
	}
	categories := report.CategoryBreakdown(rangedExpenses)
	if categories == nil {
		categories = []report.CategoryTotal{}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Period:       period,
		Year:         year,
		Totals:       report.ComputeTotals(rangedInvoices, rangedExpenses),
		Monthly:      monthly,
		Categories:   categories,
		Overdue:      overdue,
		OverdueCents: overdueCents,
		InvoiceCount: len(rangedInvoices),
		ExpenseCount: len(rangedExpenses),
	})
}
