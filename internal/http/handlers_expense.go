package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"truckbooks/internal/core"
	"truckbooks/internal/query"
)

type expenseRequest struct {
	Date     string             `json:"date"`
	Amount   string             `json:"amount"`
	Category string             `json:"category"`
	Vendor   string             `json:"vendor"`
	Notes    string             `json:"notes"`
	Items    []core.ExpenseItem `json:"items"`
}

func (req expenseRequest) toExpense() core.Expense {
	return core.Expense{
		Date:     core.ParseDate(req.Date),
		Amount:   strings.TrimSpace(req.Amount),
		Category: core.Category(strings.TrimSpace(req.Category)),
		Vendor:   strings.TrimSpace(req.Vendor),
		Notes:    strings.TrimSpace(req.Notes),
		Items:    req.Items,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := s.service.CreateExpense(r.Context(), req.toExpense())
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create expense",
			"error", err, "vendor", req.Vendor)
		writeError(w, http.StatusInternalServerError, "error saving expense")
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.repo.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "error reading expenses")
		return
	}

	expenses = query.FilterBySubstring(expenses, r.URL.Query().Get("q"), query.ExpenseSearchFields)

	// Optional exact category filter on top of the substring search.
	if cat := r.URL.Query().Get("category"); cat != "" {
		groups := query.GroupByCategory(expenses)
		expenses = groups[core.Category(cat)]
	}

	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := s.service.UpdateExpense(r.Context(), id, req.toExpense()); err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update expense", "error", err, "record_id", id)
		writeError(w, http.StatusInternalServerError, "error updating expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteExpense(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "record_id", id)
		writeError(w, http.StatusInternalServerError, "error deleting expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleScanReceipt runs the uploaded image through the OCR extractor. When
// scanning is disabled or the call fails the response is an empty draft, so
// the client falls back to manual entry instead of an error page.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}

	draft, err := s.extractor.ExtractReceipt(r.Context(), image)
	if err != nil {
		slog.WarnContext(r.Context(), "Receipt scan failed, falling back to manual entry", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"scanned": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scanned": true, "draft": draft})
}
