// Package wallet implements the ledger and payment orchestration core:
// KYC-gated wallet creation, deposits, withdrawals, peer transfers and the
// two-phase QR payment protocol, coordinated with the external payment
// provider.
package wallet

import (
	"context"

	"github.com/Mafunamiii/zoopwallet/internal/models"
)

// Service orchestrates wallet lifecycle, money movement and the QR payment
// protocol. It owns every balance-mutation invariant.
type Service interface {
	// Wallet lifecycle
	CreateWallet(ctx context.Context, userID uint, email string, initialBalance int64) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (int64, error)

	// Money movement
	Deposit(ctx context.Context, userID uint, amount int64, methodRef string) (*DepositResult, error)
	Withdraw(ctx context.Context, userID uint, amount int64) (*WithdrawResult, error)
	Transfer(ctx context.Context, fromUserID, toUserID uint, amount int64) (*TransferResult, error)

	// QR payment protocol
	GeneratePaymentQR(ctx context.Context, userID uint, amount int64) (*QRPaymentRequest, error)
	InitiateQRPayment(ctx context.Context, paymentID string, payerUserID uint, methodRef string) (*QRInitiationResult, error)
	ConfirmQRPayment(ctx context.Context, payerUserID uint, providerRef, methodRef string) (*QRConfirmationResult, error)

	// History and status
	GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
	GetPaymentStatus(ctx context.Context, userID uint, providerRef string) (*PaymentStatus, error)

	// Payment methods
	AddPaymentMethod(ctx context.Context, userID uint, methodRef string) (*models.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID uint) ([]models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, userID uint, methodRef string) error
}

// Cache is the wallet snapshot cache consumed by the service. The ledger
// store remains the source of truth.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

// noopCache is used when no cache is configured.
type noopCache struct{}

func (noopCache) GetWallet(context.Context, uint) (*models.Wallet, bool, error) {
	return nil, false, nil
}
func (noopCache) CacheWallet(context.Context, *models.Wallet) error { return nil }
func (noopCache) InvalidateWallet(context.Context, uint) error      { return nil }
