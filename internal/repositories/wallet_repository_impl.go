package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	result := r.db.Create(wallet)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateWallet
		}
		return fmt.Errorf("failed to create wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	return r.getWallet(r.db, "id = ?", id)
}

func (r *walletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	return r.getWallet(r.db, "user_id = ?", userID)
}

func (r *walletRepository) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	return r.getWallet(r.lockingClause(), "id = ?", id)
}

func (r *walletRepository) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	return r.getWallet(r.lockingClause(), "user_id = ?", userID)
}

// lockingClause adds SELECT ... FOR UPDATE where the dialect supports it.
// SQLite (used in tests) serializes writers on its own and rejects the
// clause, so it is skipped there.
func (r *walletRepository) lockingClause() *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return r.db
	}
	return r.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *walletRepository) getWallet(tx *gorm.DB, query string, arg interface{}) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where(query, arg).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(wallet *models.Wallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) CreateTransaction(txn *models.Transaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) UpdateTransaction(txn *models.Transaction) error {
	if err := r.db.Save(txn).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	return r.getTransaction("transaction_id = ?", transactionID)
}

func (r *walletRepository) GetTransactionByProviderRef(providerRef string) (*models.Transaction, error) {
	return r.getTransaction("provider_payment_ref = ?", providerRef)
}

func (r *walletRepository) GetPendingTransactionByReference(reference string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.Where("reference = ? AND status = ?", reference, models.TransactionStatusPending).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *walletRepository) getTransaction(query string, arg interface{}) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.Where(query, arg).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *walletRepository) GetTransactionHistory(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txns, nil
}

func (r *walletRepository) AttachPayer(transactionID uint, payerWalletID uint) (bool, error) {
	result := r.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ? AND from_wallet_id IS NULL",
			transactionID, models.TransactionStatusPending).
		Update("from_wallet_id", payerWalletID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to attach payer: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *walletRepository) GetExpiredPendingQR(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("status = ? AND reference <> '' AND created_at < ?",
			models.TransactionStatusPending, cutoff).
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get expired payment requests: %w", err)
	}
	return txns, nil
}

func (r *walletRepository) FailTransactions(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id IN ? AND status = ?", ids, models.TransactionStatusPending).
		Update("status", models.TransactionStatusFailed).Error
	if err != nil {
		return fmt.Errorf("failed to expire transactions: %w", err)
	}
	return nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&walletRepository{db: tx})
	})
}
