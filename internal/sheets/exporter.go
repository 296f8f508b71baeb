// Package sheets exports appended records to a Google spreadsheet. It is the
// destination side of the optional cloud-sync hook; the local store remains
// the source of truth and a failed export never touches it.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"truckbooks/internal/core"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	invoicesSheet string
	expensesSheet string
}

// NewExporterFromEnv creates an Exporter from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service-account credentials in
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. Sheet names default to "Invoices" and
// "Expenses" (GOOGLE_INVOICES_SHEET_NAME / GOOGLE_EXPENSES_SHEET_NAME).
func NewExporterFromEnv(ctx context.Context) (*Exporter, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	invoicesSheet := strings.TrimSpace(os.Getenv("GOOGLE_INVOICES_SHEET_NAME"))
	if invoicesSheet == "" {
		invoicesSheet = "Invoices"
	}
	expensesSheet := strings.TrimSpace(os.Getenv("GOOGLE_EXPENSES_SHEET_NAME"))
	if expensesSheet == "" {
		expensesSheet = "Expenses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		invoicesSheet: invoicesSheet,
		expensesSheet: expensesSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ExportInvoice appends one invoice row to the invoices sheet.
func (e *Exporter) ExportInvoice(ctx context.Context, inv core.Invoice) error {
	row := []any{
		inv.ID,
		inv.InvoiceNumber,
		inv.InvoiceDate.String(),
		inv.CustomerName,
		inv.LoadNumber,
		inv.DateDelivered.String(),
		inv.Amount,
		string(inv.PaymentStatus),
	}
	if err := e.appendRow(ctx, e.invoicesSheet, row); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Invoice exported to sheet",
		"id", inv.ID, "invoice_number", inv.InvoiceNumber, "sheet", e.invoicesSheet)
	return nil
}

// ExportExpense appends one expense row to the expenses sheet.
func (e *Exporter) ExportExpense(ctx context.Context, exp core.Expense) error {
	row := []any{
		exp.ID,
		exp.Date.String(),
		exp.Vendor,
		string(exp.Category),
		exp.Amount,
		exp.Notes,
	}
	if err := e.appendRow(ctx, e.expensesSheet, row); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense exported to sheet",
		"id", exp.ID, "vendor", exp.Vendor, "sheet", e.expensesSheet)
	return nil
}

func (e *Exporter) appendRow(ctx context.Context, sheet string, row []any) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:Z", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", sheet, err)
	}
	return nil
}
