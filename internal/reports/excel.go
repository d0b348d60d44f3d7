// internal/reports/excel.go
package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wareflow/wareflow-backend/internal/models"
)

// RenderTransactionsExcel exports a transaction listing as an xlsx
// workbook. Transactions should have Product and warehouses preloaded.
func RenderTransactionsExcel(transactions []models.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Type", "Product", "Quantity", "Source", "Destination", "Counterpart", "Shipment"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, tx := range transactions {
		values := []interface{}{
			tx.CreatedAt.Format("2006-01-02 15:04"),
			string(tx.Type),
			productName(&tx),
			tx.Quantity,
			warehouseName(tx.SourceWarehouse),
			warehouseName(tx.DestinationWarehouse),
			counterpart(&tx),
			string(tx.ShipmentStatus),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "E", "G", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func productName(tx *models.Transaction) string {
	if tx.Product != nil {
		return tx.Product.Name
	}
	return tx.ProductID.String()
}

func warehouseName(w *models.Warehouse) string {
	if w == nil {
		return ""
	}
	return w.Name
}

func counterpart(tx *models.Transaction) string {
	switch tx.Type {
	case models.TransactionTypeIn:
		return tx.Supplier
	case models.TransactionTypeOut:
		return tx.CustomerName
	case models.TransactionTypeAdjustment:
		return tx.Reason
	}
	return ""
}
