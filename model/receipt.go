package model

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// ReceiptID derives a stable identifier for a purchase from the exact
// payload and signature strings received from the platform. The same
// receipt re-delivered later maps to the same identifier.
func ReceiptID(purchaseData, dataSignature string) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(purchaseData))
	hasher.Write([]byte{'|'})
	hasher.Write([]byte(dataSignature))
	return hasher.Sum(nil)
}

// ReceiptIDString renders a receipt identifier for logs and display.
func ReceiptIDString(id []byte) string {
	return base58.Encode(id)
}
