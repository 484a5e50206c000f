package repositories

import (
	"context"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/models"
)

// WalletRepository is the ledger store: durable wallet records plus the
// append-only transaction history. Multi-write operations run inside
// ExecuteInTransaction so balance mutations and their transaction rows
// commit together or not at all.
type WalletRepository interface {
	// Wallet operations
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByUserID(userID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error

	// Locked reads. Inside ExecuteInTransaction these take a row-level
	// lock so two concurrent operations cannot both read a stale balance.
	GetByIDForUpdate(id uint) (*models.Wallet, error)
	GetByUserIDForUpdate(userID uint) (*models.Wallet, error)

	// Transaction operations
	CreateTransaction(txn *models.Transaction) error
	UpdateTransaction(txn *models.Transaction) error
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	GetTransactionByProviderRef(providerRef string) (*models.Transaction, error)
	GetPendingTransactionByReference(reference string) (*models.Transaction, error)
	GetTransactionHistory(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, error)

	// AttachPayer sets the payer wallet on a pending transaction that has
	// no payer yet. Returns false when the transaction was already claimed,
	// completed or failed; at most one concurrent caller wins.
	AttachPayer(transactionID uint, payerWalletID uint) (bool, error)

	// Expiry support for the QR payment protocol.
	GetExpiredPendingQR(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error)
	FailTransactions(ctx context.Context, ids []uint) error

	// ExecuteInTransaction runs fn against a repository bound to a single
	// database transaction.
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
