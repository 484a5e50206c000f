package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypeWithdraw = "withdraw"
	TransactionTypeTransfer = "transfer"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction records a balance-affecting event. Completed and failed
// transactions are immutable; only the QR payment flow advances a pending
// transaction (attaching the payer wallet and promoting the status).
type Transaction struct {
	ID            uint   `gorm:"primarykey"`
	TransactionID string `gorm:"uniqueIndex;not null"` // external reference ID
	Type          string `gorm:"not null"`
	Amount        int64  `gorm:"not null"`
	Currency      string `gorm:"not null;default:'USD'"`
	FromWalletID  *uint  `gorm:"index"`
	ToWalletID    *uint  `gorm:"index"`
	Status        string `gorm:"not null;default:'pending'"`

	// ProviderPaymentRef is the upstream payment intent or payout id. It
	// doubles as the idempotency key for retried confirmations.
	ProviderPaymentRef string `gorm:"index"`

	// Reference carries the QR paymentId for pending payment requests so
	// they can be looked up without a JSON query.
	Reference string `gorm:"index"`

	Metadata  JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
