// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTPCode returns a numeric one-time code of the given length.
func GenerateOTPCode(length int) (string, error) {
	const digits = "0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		b[i] = digits[n.Int64()]
	}

	return string(b), nil
}

// InvoiceNumber derives a human-readable invoice reference from a
// transaction id fragment.
func InvoiceNumber(idFragment string) string {
	return fmt.Sprintf("INV-%s", idFragment)
}
