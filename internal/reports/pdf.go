// internal/reports/pdf.go
package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

// RenderInvoicePDF produces an invoice for an OUT transaction. The
// transaction must have Product and SourceWarehouse preloaded.
func RenderInvoicePDF(tx *models.Transaction) ([]byte, error) {
	if tx.Type != models.TransactionTypeOut {
		return nil, fmt.Errorf("invoices are only available for out transactions")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, "INVOICE")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(70, 10, utils.InvoiceNumber(shortID(tx)), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(95, 6, "Billed to: "+tx.CustomerName)
	pdf.CellFormat(95, 6, "Date: "+tx.CreatedAt.Format("2006-01-02"), "", 1, "R", false, 0, "")
	if tx.CustomerEmail != "" {
		pdf.Cell(95, 6, tx.CustomerEmail)
		pdf.Ln(6)
	}
	if tx.SourceWarehouse != nil {
		pdf.Cell(190, 6, "Shipped from: "+tx.SourceWarehouse.Name+", "+tx.SourceWarehouse.Address)
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	unit := 0.0
	name := "unknown product"
	if tx.Product != nil {
		unit = tx.Product.SellingPrice()
		name = tx.Product.Name
	}
	total := unit * float64(tx.Quantity)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%d", tx.Quantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", unit), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(190, 6, "Shipment status: "+strings.ToUpper(string(tx.ShipmentStatus)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func shortID(tx *models.Transaction) string {
	id := tx.ID.String()
	if len(id) >= 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
