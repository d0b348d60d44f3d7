// internal/reports/reports_test.go
package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/wareflow-backend/internal/models"
)

func sampleOutTransaction() *models.Transaction {
	warehouse := &models.Warehouse{
		Name:    "Central",
		Address: "1 Dock Road, Hamburg",
	}
	product := &models.Product{
		Name:          "Desk Lamp",
		Price:         30,
		MarkupPercent: 25,
	}

	tx := &models.Transaction{
		Type:            models.TransactionTypeOut,
		Quantity:        3,
		CustomerName:    "Jordan Lee",
		CustomerEmail:   "jordan@example.com",
		ShipmentStatus:  models.ShipmentStatusPending,
		Product:         product,
		SourceWarehouse: warehouse,
	}
	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	return tx
}

func TestRenderInvoicePDF(t *testing.T) {
	pdf, err := RenderInvoicePDF(sampleOutTransaction())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestRenderInvoicePDFRejectsNonOut(t *testing.T) {
	tx := sampleOutTransaction()
	tx.Type = models.TransactionTypeIn

	_, err := RenderInvoicePDF(tx)
	assert.Error(t, err)
}

func TestRenderTransactionsExcel(t *testing.T) {
	out := sampleOutTransaction()
	in := &models.Transaction{
		Type:     models.TransactionTypeIn,
		Quantity: 10,
		Supplier: "Acme Supplies",
		Product:  out.Product,
	}
	in.ID = uuid.New()
	in.CreatedAt = time.Now()

	data, err := RenderTransactionsExcel([]models.Transaction{*out, *in})
	require.NoError(t, err)
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestRenderProductQR(t *testing.T) {
	product := &models.Product{Name: "Desk Lamp"}
	product.ID = uuid.New()

	png, err := RenderProductQR(product, 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
