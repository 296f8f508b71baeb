package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"truckbooks/internal/core"
	"truckbooks/internal/notify"
	"truckbooks/internal/query"
	"truckbooks/internal/report"
)

type invoiceRequest struct {
	InvoiceNumber      string                 `json:"invoiceNumber"`
	InvoiceDate        string                 `json:"invoiceDate"`
	CustomerName       string                 `json:"customerName"`
	DateDelivered      string                 `json:"dateDelivered"`
	LoadNumber         string                 `json:"loadNumber"`
	Amount             string                 `json:"amount"`
	ProductDescription string                 `json:"productDescription"`
	PieceCount         int                    `json:"pieceCount"`
	RatePerPiece       string                 `json:"ratePerPiece"`
	AccessoryCharges   []core.AccessoryCharge `json:"accessoryCharges"`
}

// invoiceView is an invoice plus its derived overdue flag. The flag is
// recomputed from "now" on every read and never persisted.
type invoiceView struct {
	core.Invoice
	IsOverdue bool `json:"isOverdue"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv := core.Invoice{
		InvoiceNumber:      strings.TrimSpace(req.InvoiceNumber),
		InvoiceDate:        core.ParseDate(req.InvoiceDate),
		CustomerName:       strings.TrimSpace(req.CustomerName),
		DateDelivered:      core.ParseDate(req.DateDelivered),
		LoadNumber:         strings.TrimSpace(req.LoadNumber),
		Amount:             strings.TrimSpace(req.Amount),
		ProductDescription: strings.TrimSpace(req.ProductDescription),
		PieceCount:         req.PieceCount,
		RatePerPiece:       strings.TrimSpace(req.RatePerPiece),
		AccessoryCharges:   req.AccessoryCharges,
	}

	stored, err := s.service.CreateInvoice(r.Context(), inv)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create invoice",
			"error", err, "invoice_number", inv.InvoiceNumber)
		writeError(w, http.StatusInternalServerError, "error saving invoice")
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.repo.ListInvoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list invoices", "error", err)
		writeError(w, http.StatusInternalServerError, "error reading invoices")
		return
	}

	invoices = query.FilterBySubstring(invoices, r.URL.Query().Get("q"), query.InvoiceSearchFields)

	now := s.now()
	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, invoiceView{Invoice: inv, IsOverdue: report.IsOverdue(inv, now)})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteInvoice(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete invoice", "error", err, "record_id", id)
		writeError(w, http.StatusInternalServerError, "error deleting invoice")
		return
	}
	// Deleting an unknown id lands here too: delete is idempotent.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paid bool `json:"paid"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := s.service.SetInvoicePaid(r.Context(), id, req.Paid); err != nil {
		slog.ErrorContext(r.Context(), "Failed to set payment status", "error", err, "record_id", id)
		writeError(w, http.StatusInternalServerError, "error updating payment status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paid": req.Paid})
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, ok, err := s.findInvoice(r, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error reading invoices")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(inv, &buf); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render invoice", "error", err, "record_id", inv.ID)
		writeError(w, http.StatusInternalServerError, "error rendering invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+inv.InvoiceNumber+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSendInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok, err := s.findInvoice(r, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error reading invoices")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	var req struct {
		Recipient string `json:"recipient"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		recipient = inv.NotificationEmail
	}
	if recipient == "" || !strings.Contains(recipient, "@") {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidRecipient.Error())
		return
	}

	notice := notify.Notice{
		Recipient:     recipient,
		InvoiceNumber: inv.InvoiceNumber,
		LoadNumber:    inv.LoadNumber,
		Amount:        inv.Amount,
		CustomerName:  inv.CustomerName,
	}
	// The invoice is already persisted; a failed send only reports itself.
	if err := s.notifier.SendInvoiceNotice(r.Context(), notice); err != nil {
		slog.ErrorContext(r.Context(), "Failed to send invoice notice",
			"error", err, "record_id", inv.ID, "recipient", recipient)
		writeError(w, http.StatusBadGateway, "notification failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent", "recipient": recipient})
}

func (s *Server) findInvoice(r *http.Request, id string) (core.Invoice, bool, error) {
	invoices, err := s.repo.ListInvoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list invoices", "error", err)
		return core.Invoice{}, false, err
	}
	for _, inv := range invoices {
		if inv.ID == id {
			return inv, true, nil
		}
	}
	return core.Invoice{}, false, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrEmptyInvoiceNo) ||
		errors.Is(err, core.ErrEmptyCustomer)
}
