package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"truckbooks/internal/core"
	"truckbooks/internal/ledger"
	"truckbooks/internal/notify"
	"truckbooks/internal/ocr"
	"truckbooks/internal/services"
	"truckbooks/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	// Ticking clock so every record gets a distinct id and timestamp while
	// staying inside the 2024 test window.
	base := time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	repo := ledger.NewWithClock(store.NewMemoryStore(), clock)
	svc := services.NewRecordService(repo, nil)
	s := NewServer(":0", svc, repo, notify.Noop{}, ocr.Disabled{})
	s.now = func() time.Time { return base }
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func validInvoiceBody() map[string]any {
	return map[string]any{
		"invoiceNumber": "INV-100",
		"invoiceDate":   "2024-06-01",
		"customerName":  "Acme Freight",
		"dateDelivered": "2024-06-03",
		"loadNumber":    "L-77",
		"amount":        "1250.00",
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCompanyProfileRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/company", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	profile := decodeBody[core.CompanyProfile](t, rec)
	if profile.Name != "" || profile.CarrierID != "" {
		t.Fatalf("expected empty defaults, got %+v", profile)
	}

	rec = doJSON(t, s, http.MethodPut, "/company", core.CompanyProfile{
		Name:              "Haul Co",
		Address:           "1 Main St",
		CarrierID:         "MC-123",
		NotificationEmail: "ops@haul.co",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	profile = decodeBody[core.CompanyProfile](t, doJSON(t, s, http.MethodGet, "/company", nil))
	if profile.Name != "Haul Co" || profile.NotificationEmail != "ops@haul.co" {
		t.Fatalf("profile not persisted: %+v", profile)
	}
}

func TestCreateAndListInvoices(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/invoices", validInvoiceBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Invoice](t, rec)
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if created.PaymentStatus != core.PaymentUnpaid {
		t.Fatalf("expected new invoice unpaid, got %q", created.PaymentStatus)
	}

	second := validInvoiceBody()
	second["invoiceNumber"] = "INV-101"
	doJSON(t, s, http.MethodPost, "/invoices", second)

	views := decodeBody[[]invoiceView](t, doJSON(t, s, http.MethodGet, "/invoices", nil))
	if len(views) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(views))
	}
	if views[0].InvoiceNumber != "INV-101" {
		t.Fatalf("expected newest first, got %q", views[0].InvoiceNumber)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	s := newTestServer(t)

	body := validInvoiceBody()
	body["amount"] = "not-a-number"
	rec := doJSON(t, s, http.MethodPost, "/invoices", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	views := decodeBody[[]invoiceView](t, doJSON(t, s, http.MethodGet, "/invoices", nil))
	if len(views) != 0 {
		t.Fatalf("rejected invoice must not be stored, got %d records", len(views))
	}
}

func TestInvoiceSearchFilter(t *testing.T) {
	s := newTestServer(t)

	first := validInvoiceBody()
	first["customerName"] = "Acme Freight"
	doJSON(t, s, http.MethodPost, "/invoices", first)
	second := validInvoiceBody()
	second["invoiceNumber"] = "INV-200"
	second["customerName"] = "Blue Line"
	doJSON(t, s, http.MethodPost, "/invoices", second)

	views := decodeBody[[]invoiceView](t, doJSON(t, s, http.MethodGet, "/invoices?q=acme", nil))
	if len(views) != 1 || views[0].CustomerName != "Acme Freight" {
		t.Fatalf("unexpected filter result: %+v", views)
	}
}

func TestDeleteInvoiceIdempotent(t *testing.T) {
	s := newTestServer(t)

	created := decodeBody[core.Invoice](t, doJSON(t, s, http.MethodPost, "/invoices", validInvoiceBody()))

	if rec := doJSON(t, s, http.MethodDelete, "/invoices/"+created.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/invoices/"+created.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on repeat delete, got %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/invoices/no-such-id", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for unknown id, got %d", rec.Code)
	}
}

func TestPaymentStatusAndOverdueFlag(t *testing.T) {
	s := newTestServer(t)

	body := validInvoiceBody()
	body["dateDelivered"] = "2024-05-01" // 42 days before the fixed now
	created := decodeBody[core.Invoice](t, doJSON(t, s, http.MethodPost, "/invoices", body))

	views := decodeBody[[]invoiceView](t, doJSON(t, s, http.MethodGet, "/invoices", nil))
	if !views[0].IsOverdue {
		t.Fatal("expected unpaid 42-day-old delivery to be overdue")
	}

	rec := doJSON(t, s, http.MethodPost, "/invoices/"+created.ID+"/payment", map[string]bool{"paid": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	views = decodeBody[[]invoiceView](t, doJSON(t, s, http.MethodGet, "/invoices", nil))
	if views[0].PaymentStatus != core.PaymentPaid {
		t.Fatalf("expected paid, got %q", views[0].PaymentStatus)
	}
	if views[0].IsOverdue {
		t.Fatal("paid invoice must not be overdue")
	}
}

func TestInvoicePDF(t *testing.T) {
	s := newTestServer(t)

	created := decodeBody[core.Invoice](t, doJSON(t, s, http.MethodPost, "/invoices", validInvoiceBody()))

	rec := doJSON(t, s, http.MethodGet, "/invoices/"+created.ID+"/pdf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("response is not a PDF document")
	}

	rec = doJSON(t, s, http.MethodGet, "/invoices/no-such-id/pdf", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown invoice, got %d", rec.Code)
	}
}

func TestSendInvoiceNotice(t *testing.T) {
	s := newTestServer(t)

	created := decodeBody[core.Invoice](t, doJSON(t, s, http.MethodPost, "/invoices", validInvoiceBody()))

	rec := doJSON(t, s, http.MethodPost, "/invoices/"+created.ID+"/send", map[string]string{"recipient": "me@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[map[string]string](t, rec)
	if resp["recipient"] != "me@example.com" {
		t.Fatalf("unexpected recipient %q", resp["recipient"])
	}
}

func validExpenseBody() map[string]any {
	return map[string]any{
		"date":     "2024-06-10",
		"amount":   "89.50",
		"category": "fuel",
		"vendor":   "Pilot",
	}
}

func TestCreateListAndFilterExpenses(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/expenses", validExpenseBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	second := validExpenseBody()
	second["category"] = "tolls"
	second["vendor"] = "EZPass"
	doJSON(t, s, http.MethodPost, "/expenses", second)

	all := decodeBody[[]core.Expense](t, doJSON(t, s, http.MethodGet, "/expenses", nil))
	if len(all) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(all))
	}

	fuel := decodeBody[[]core.Expense](t, doJSON(t, s, http.MethodGet, "/expenses?category=fuel", nil))
	if len(fuel) != 1 || fuel[0].Vendor != "Pilot" {
		t.Fatalf("unexpected category filter result: %+v", fuel)
	}

	byVendor := decodeBody[[]core.Expense](t, doJSON(t, s, http.MethodGet, "/expenses?q=ezpass", nil))
	if len(byVendor) != 1 || byVendor[0].Vendor != "EZPass" {
		t.Fatalf("unexpected search result: %+v", byVendor)
	}
}

func TestExpenseRejectedOnBadCategory(t *testing.T) {
	s := newTestServer(t)

	body := validExpenseBody()
	body["category"] = "lottery"
	rec := doJSON(t, s, http.MethodPost, "/expenses", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "category") {
		t.Fatalf("expected category error, got %s", rec.Body.String())
	}
}

func TestUpdateExpenseInPlace(t *testing.T) {
	s := newTestServer(t)

	created := decodeBody[core.Expense](t, doJSON(t, s, http.MethodPost, "/expenses", validExpenseBody()))

	update := validExpenseBody()
	update["amount"] = "120.00"
	update["vendor"] = "Loves"
	rec := doJSON(t, s, http.MethodPut, "/expenses/"+created.ID, update)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	all := decodeBody[[]core.Expense](t, doJSON(t, s, http.MethodGet, "/expenses", nil))
	if len(all) != 1 {
		t.Fatalf("update must not duplicate the record, got %d", len(all))
	}
	if all[0].ID != created.ID || all[0].Vendor != "Loves" || all[0].Amount != "120.00" {
		t.Fatalf("unexpected record after update: %+v", all[0])
	}
}

func TestScanReceiptDisabled(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/receipts/scan", strings.NewReader("fake-image-bytes"))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[map[string]any](t, rec)
	if resp["scanned"] != true {
		t.Fatalf("expected scanned=true with empty draft, got %v", resp)
	}
}

func TestDashboardRollup(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/invoices", validInvoiceBody()) // 1250.00
	e := validExpenseBody()                                        // 89.50 fuel
	doJSON(t, s, http.MethodPost, "/expenses", e)

	rec := doJSON(t, s, http.MethodGet, "/dashboard?period=ytd&year=2024", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[dashboardResponse](t, rec)

	if resp.Totals.IncomeCents != 125000 || resp.Totals.ExpenseCents != 8950 {
		t.Fatalf("unexpected totals: %+v", resp.Totals)
	}
	if resp.Totals.NetCents != 116050 {
		t.Fatalf("unexpected net: %d", resp.Totals.NetCents)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].Category != core.CategoryFuel {
		t.Fatalf("unexpected categories: %+v", resp.Categories)
	}
	if len(resp.Monthly) != 1 || resp.Monthly[0].Month != time.June {
		t.Fatalf("unexpected monthly rollup: %+v", resp.Monthly)
	}
	if resp.InvoiceCount != 1 || resp.ExpenseCount != 1 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
}

func TestDashboardYearScope(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/invoices", validInvoiceBody())

	rec := doJSON(t, s, http.MethodGet, "/dashboard?period=ytd&year=2019", nil)
	resp := decodeBody[dashboardResponse](t, rec)
	if resp.Totals.IncomeCents != 0 || resp.InvoiceCount != 0 {
		t.Fatalf("2019 window must exclude 2024 records: %+v", resp.Totals)
	}
}
