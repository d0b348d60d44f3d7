// internal/reports/qrcode.go
package reports

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/wareflow/wareflow-backend/internal/models"
)

// RenderProductQR encodes a product reference as a PNG QR code, scanned
// on the warehouse floor to pull up the product record.
func RenderProductQR(product *models.Product, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}

	payload := fmt.Sprintf("wareflow://product/%s", product.ID)
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
