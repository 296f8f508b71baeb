// Package http exposes the ledger over a JSON API: company profile, invoice
// and expense records, dashboard rollups, PDF rendering, notification and
// receipt scanning.
package http

import (
	"net/http"
	"time"

	applog "truckbooks/internal/log"
	"truckbooks/internal/ledger"
	"truckbooks/internal/notify"
	"truckbooks/internal/ocr"
	"truckbooks/internal/pdf"
	"truckbooks/internal/services"
)

type Server struct {
	http.Server

	service   *services.RecordService
	repo      *ledger.Repository
	renderer  *pdf.Renderer
	notifier  notify.Notifier
	extractor ocr.Extractor

	// injectable clock so range and overdue views are testable
	now func() time.Time
}

// NewServer wires the routes and returns a ready-to-run server. The notifier
// and extractor are required; pass the no-op implementations when the
// corresponding feature is not configured.
func NewServer(addr string, service *services.RecordService, repo *ledger.Repository, notifier notify.Notifier, extractor ocr.Extractor) *Server {
	s := &Server{
		service:   service,
		repo:      repo,
		renderer:  pdf.NewRenderer(),
		notifier:  notifier,
		extractor: extractor,
		now:       time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /company", s.handleGetCompany)
	mux.HandleFunc("PUT /company", s.handlePutCompany)

	mux.HandleFunc("GET /invoices", s.handleListInvoices)
	mux.HandleFunc("POST /invoices", s.handleCreateInvoice)
	mux.HandleFunc("DELETE /invoices/{id}", s.handleDeleteInvoice)
	mux.HandleFunc("POST /invoices/{id}/payment", s.handleSetPayment)
	mux.HandleFunc("GET /invoices/{id}/pdf", s.handleInvoicePDF)
	mux.HandleFunc("POST /invoices/{id}/send", s.handleSendInvoice)

	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("POST /receipts/scan", s.handleScanReceipt)

	mux.HandleFunc("GET /dashboard", s.handleDashboard)

	limiter := newRateLimiter(defaultRequestsPerMinute)
	handler := securityHeaders(withRequestID(limiter.middleware(applog.AccessLog(mux))))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// defaultRequestsPerMinute bounds per-client request volume. Generous for a
// single-operator tool; it exists to stop runaway clients, not to meter use.
const defaultRequestsPerMinute = 300

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
