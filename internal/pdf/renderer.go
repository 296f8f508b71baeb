// Package pdf renders an invoice record into a printable PDF document.
package pdf

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"truckbooks/internal/core"
)

// Renderer produces the document artifact for one invoice. It only reads the
// record it is handed; it never touches persisted state.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the invoice as an A4 PDF to w.
func (r *Renderer) Render(inv core.Invoice, w io.Writer) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 20)
	doc.Cell(0, 12, "INVOICE #"+inv.InvoiceNumber)
	doc.Ln(14)

	doc.SetFont("Arial", "B", 11)
	doc.Cell(0, 6, inv.CompanyName)
	doc.Ln(6)
	doc.SetFont("Arial", "", 10)
	doc.Cell(0, 5, inv.CompanyAddress)
	doc.Ln(5)
	if inv.CarrierID != "" {
		doc.Cell(0, 5, "Carrier ID: "+inv.CarrierID)
		doc.Ln(5)
	}
	doc.Ln(4)

	doc.SetFont("Arial", "", 10)
	writeRow(doc, "Invoice date", inv.InvoiceDate.String())
	writeRow(doc, "Bill to", inv.CustomerName)
	writeRow(doc, "Load number", inv.LoadNumber)
	writeRow(doc, "Date delivered", inv.DateDelivered.String())
	if inv.ProductDescription != "" {
		writeRow(doc, "Description", inv.ProductDescription)
	}
	if inv.PieceCount > 0 {
		writeRow(doc, "Pieces", fmt.Sprintf("%d @ %s", inv.PieceCount, inv.RatePerPiece))
	}
	doc.Ln(4)

	if len(inv.AccessoryCharges) > 0 {
		doc.SetFont("Arial", "B", 10)
		doc.Cell(0, 6, "Accessory charges")
		doc.Ln(7)
		doc.SetFont("Arial", "", 10)
		for _, c := range inv.AccessoryCharges {
			writeRow(doc, c.Description, "$"+c.Amount)
		}
		doc.Ln(4)
	}

	doc.SetFont("Arial", "B", 13)
	doc.Cell(0, 10, "Total due: $"+inv.Amount)
	doc.Ln(12)

	if inv.PaymentStatus == core.PaymentPaid {
		doc.SetFont("Arial", "B", 11)
		doc.SetTextColor(0, 128, 0)
		doc.Cell(0, 8, "PAID")
		doc.SetTextColor(0, 0, 0)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render invoice pdf: %w", err)
	}
	return nil
}

func writeRow(doc *gofpdf.Fpdf, label, value string) {
	doc.SetFont("Arial", "B", 10)
	doc.Cell(45, 6, label)
	doc.SetFont("Arial", "", 10)
	doc.Cell(0, 6, value)
	doc.Ln(6)
}
