package wallet

import "time"

// Default configuration values
const (
	DefaultCurrency     = "USD"
	DefaultQRPaymentTTL = 15 * time.Minute
	DefaultHistoryLimit = 20
)

// qrTokenBytes is the entropy of a QR payment id (hex-encoded to twice
// this length).
const qrTokenBytes = 16

// Metadata keys
const (
	metadataPaymentID = "payment_id"
)
