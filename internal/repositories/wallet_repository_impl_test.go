package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletCRUD(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))

	w := mustCreateWallet(t, repo, 1, 1000)
	require.NotZero(t, w.ID)

	got, err := repo.GetByID(w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Balance)

	got, err = repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	got.Balance = 2500
	require.NoError(t, repo.Update(got))
	got, err = repo.GetByID(w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got.Balance)

	_, err = repo.GetByID(9999)
	require.ErrorIs(t, err, ErrWalletNotFound)
	_, err = repo.GetByUserID(9999)
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestCreateWalletDuplicateUser(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))

	mustCreateWallet(t, repo, 1, 0)
	err := repo.Create(&models.Wallet{UserID: 1, Currency: "USD", ProviderCustomerID: "cus_dup"})
	require.ErrorIs(t, err, ErrDuplicateWallet)
}

func TestTransactionLookups(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	w := mustCreateWallet(t, repo, 1, 0)

	txn := &models.Transaction{
		TransactionID:      "txn-1",
		Type:               models.TransactionTypeDeposit,
		Amount:             500,
		Currency:           "USD",
		ToWalletID:         &w.ID,
		Status:             models.TransactionStatusCompleted,
		ProviderPaymentRef: "pi_abc",
	}
	require.NoError(t, repo.CreateTransaction(txn))

	got, err := repo.GetTransactionByID("txn-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Amount)

	got, err = repo.GetTransactionByProviderRef("pi_abc")
	require.NoError(t, err)
	assert.Equal(t, "txn-1", got.TransactionID)

	_, err = repo.GetTransactionByProviderRef("pi_missing")
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestGetPendingTransactionByReference(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	w := mustCreateWallet(t, repo, 1, 0)

	pending := &models.Transaction{
		TransactionID: "txn-qr",
		Type:          models.TransactionTypeTransfer,
		Amount:        300,
		Currency:      "USD",
		ToWalletID:    &w.ID,
		Status:        models.TransactionStatusPending,
		Reference:     "qr-token-1",
	}
	require.NoError(t, repo.CreateTransaction(pending))

	got, err := repo.GetPendingTransactionByReference("qr-token-1")
	require.NoError(t, err)
	assert.Equal(t, "txn-qr", got.TransactionID)

	// A completed transaction is no longer matched.
	got.Status = models.TransactionStatusCompleted
	require.NoError(t, repo.UpdateTransaction(got))
	_, err = repo.GetPendingTransactionByReference("qr-token-1")
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestAttachPayer(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	payee := mustCreateWallet(t, repo, 1, 0)
	payerA := mustCreateWallet(t, repo, 2, 0)
	payerB := mustCreateWallet(t, repo, 3, 0)

	txn := &models.Transaction{
		TransactionID: "txn-qr",
		Type:          models.TransactionTypeTransfer,
		Amount:        300,
		Currency:      "USD",
		ToWalletID:    &payee.ID,
		Status:        models.TransactionStatusPending,
		Reference:     "qr-token-1",
	}
	require.NoError(t, repo.CreateTransaction(txn))

	claimed, err := repo.AttachPayer(txn.ID, payerA.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second payer cannot claim the same request.
	claimed, err = repo.AttachPayer(txn.ID, payerB.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	got, err := repo.GetTransactionByID("txn-qr")
	require.NoError(t, err)
	require.NotNil(t, got.FromWalletID)
	assert.Equal(t, payerA.ID, *got.FromWalletID)

	// Claiming a non-pending transaction fails too.
	got.Status = models.TransactionStatusFailed
	require.NoError(t, repo.UpdateTransaction(got))
	claimed, err = repo.AttachPayer(txn.ID, payerB.ID)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestGetTransactionHistory(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	w := mustCreateWallet(t, repo, 1, 0)
	other := mustCreateWallet(t, repo, 2, 0)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateTransaction(&models.Transaction{
			TransactionID: fmt.Sprintf("txn-%d", i),
			Type:          models.TransactionTypeDeposit,
			Amount:        int64(100 + i),
			Currency:      "USD",
			ToWalletID:    &w.ID,
			Status:        models.TransactionStatusCompleted,
		}))
	}
	require.NoError(t, repo.CreateTransaction(&models.Transaction{
		TransactionID: "txn-other",
		Type:          models.TransactionTypeDeposit,
		Amount:        999,
		Currency:      "USD",
		ToWalletID:    &other.ID,
		Status:        models.TransactionStatusCompleted,
	}))

	history, err := repo.GetTransactionHistory(context.Background(), w.ID, 3, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	history, err = repo.GetTransactionHistory(context.Background(), w.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 5)
	for _, txn := range history {
		assert.NotEqual(t, "txn-other", txn.TransactionID)
	}
}

func TestExecuteInTransactionRollsBack(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	w := mustCreateWallet(t, repo, 1, 1000)

	err := repo.ExecuteInTransaction(func(tx WalletRepository) error {
		locked, err := tx.GetByIDForUpdate(w.ID)
		if err != nil {
			return err
		}
		locked.Balance = 0
		if err := tx.Update(locked); err != nil {
			return err
		}
		return fmt.Errorf("forced failure")
	})
	require.Error(t, err)

	got, err := repo.GetByID(w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Balance, "rollback must restore the balance")
}

func TestExecuteInTransactionCommits(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	src := mustCreateWallet(t, repo, 1, 1000)
	dst := mustCreateWallet(t, repo, 2, 0)

	err := repo.ExecuteInTransaction(func(tx WalletRepository) error {
		a, err := tx.GetByIDForUpdate(src.ID)
		if err != nil {
			return err
		}
		b, err := tx.GetByIDForUpdate(dst.ID)
		if err != nil {
			return err
		}
		a.Balance -= 400
		b.Balance += 400
		if err := tx.Update(a); err != nil {
			return err
		}
		return tx.Update(b)
	})
	require.NoError(t, err)

	a, _ := repo.GetByID(src.ID)
	b, _ := repo.GetByID(dst.ID)
	assert.Equal(t, int64(600), a.Balance)
	assert.Equal(t, int64(400), b.Balance)
}

func TestExpiredPendingQR(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	w := mustCreateWallet(t, repo, 1, 0)

	old := &models.Transaction{
		TransactionID: "txn-old",
		Type:          models.TransactionTypeTransfer,
		Amount:        100,
		Currency:      "USD",
		ToWalletID:    &w.ID,
		Status:        models.TransactionStatusPending,
		Reference:     "qr-old",
		CreatedAt:     time.Now().Add(-time.Hour),
	}
	fresh := &models.Transaction{
		TransactionID: "txn-fresh",
		Type:          models.TransactionTypeTransfer,
		Amount:        100,
		Currency:      "USD",
		ToWalletID:    &w.ID,
		Status:        models.TransactionStatusPending,
		Reference:     "qr-fresh",
	}
	// Plain deposits without a reference are never expired.
	deposit := &models.Transaction{
		TransactionID: "txn-dep",
		Type:          models.TransactionTypeDeposit,
		Amount:        100,
		Currency:      "USD",
		ToWalletID:    &w.ID,
		Status:        models.TransactionStatusPending,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateTransaction(old))
	require.NoError(t, repo.CreateTransaction(fresh))
	require.NoError(t, repo.CreateTransaction(deposit))

	cutoff := time.Now().Add(-30 * time.Minute)
	expired, err := repo.GetExpiredPendingQR(context.Background(), cutoff, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "txn-old", expired[0].TransactionID)

	require.NoError(t, repo.FailTransactions(context.Background(), []uint{expired[0].ID}))

	got, err := repo.GetTransactionByID("txn-old")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, got.Status)

	// Already-claimed ids that have since completed are left alone.
	freshTxn, err := repo.GetTransactionByID("txn-fresh")
	require.NoError(t, err)
	freshTxn.Status = models.TransactionStatusCompleted
	require.NoError(t, repo.UpdateTransaction(freshTxn))
	require.NoError(t, repo.FailTransactions(context.Background(), []uint{freshTxn.ID}))
	got, err = repo.GetTransactionByID("txn-fresh")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, got.Status)
}
