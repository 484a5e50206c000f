package wallet

import (
	"time"
)

// Config holds wallet service configuration.
type Config struct {
	DefaultCurrency string
	QRPaymentTTL    time.Duration
	HistoryLimit    int
}

// DepositResult is returned by a successful deposit. Balance is the
// post-deposit wallet balance, Amount the provider-confirmed figure.
type DepositResult struct {
	Balance            int64  `json:"balance"`
	Amount             int64  `json:"amount"`
	TransactionID      string `json:"transaction_id"`
	ProviderPaymentRef string `json:"provider_payment_ref"`
}

// WithdrawResult is returned by a successful withdrawal.
type WithdrawResult struct {
	Balance       int64  `json:"balance"`
	TransactionID string `json:"transaction_id"`
	PayoutRef     string `json:"payout_ref"`
}

// TransferResult carries both post-transfer balances.
type TransferResult struct {
	FromBalance   int64  `json:"from_balance"`
	ToBalance     int64  `json:"to_balance"`
	TransactionID string `json:"transaction_id"`
}

// QRPayload is the bit-exact contract a client-side scanner parses.
// Amount is in minor units.
type QRPayload struct {
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
}

// QRPaymentRequest is returned to the payee after generating a payment QR.
type QRPaymentRequest struct {
	PaymentID     string `json:"payment_id"`
	QRData        string `json:"qr_data"`
	QRCodeDataURL string `json:"qr_code_data_url"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

// QRInitiationResult is the client-facing confirmation handle returned
// after a payer attaches to a payment request.
type QRInitiationResult struct {
	ProviderPaymentRef string `json:"provider_payment_ref"`
	ClientSecret       string `json:"client_secret"`
	Amount             int64  `json:"amount"`
	Status             string `json:"status"`
}

// QRConfirmationResult is returned once a QR payment completes.
type QRConfirmationResult struct {
	TransactionID      string `json:"transaction_id"`
	ProviderPaymentRef string `json:"provider_payment_ref"`
	Amount             int64  `json:"amount"`
	PayerBalance       int64  `json:"payer_balance"`
}

// PaymentStatus is the status view for provider-reference polling.
type PaymentStatus struct {
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MetricsCollector receives operational metrics from the service.
type MetricsCollector interface {
	RecordTransaction(txType string, amount int64)
	RecordError(operation, errType string)
	RecordOperationDuration(operation string, duration time.Duration)
}
