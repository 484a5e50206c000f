package wallet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/models"
	"github.com/Mafunamiii/zoopwallet/internal/repositories"
	"github.com/Mafunamiii/zoopwallet/internal/services/notification"
	"github.com/Mafunamiii/zoopwallet/internal/services/payment"
	"github.com/Mafunamiii/zoopwallet/internal/utils"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// GeneratePaymentQR publishes a payment request as a pending transaction
// with the payee attached and the payer unknown. No balance changes until
// a payer confirms.
func (s *service) GeneratePaymentQR(ctx context.Context, userID uint, amount int64) (*QRPaymentRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	paymentID, err := utils.GenerateSecureToken(qrTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment id: %w", err)
	}

	payload := QRPayload{
		PaymentID: paymentID,
		Amount:    amount,
		Recipient: strconv.FormatUint(uint64(userID), 10),
	}
	qrData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	txn := &models.Transaction{
		TransactionID: uuid.NewString(),
		Type:          models.TransactionTypeTransfer,
		Amount:        amount,
		Currency:      wallet.Currency,
		ToWalletID:    &wallet.ID,
		Status:        models.TransactionStatusPending,
		Reference:     paymentID,
		Metadata:      models.NewJSON(map[string]interface{}{metadataPaymentID: paymentID}),
	}
	if err := s.ledger.CreateTransaction(txn); err != nil {
		s.metrics.RecordError("generate_qr", "ledger")
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	s.logger.Info("payment qr generated",
		zap.Uint("payee_user_id", userID),
		zap.Int64("amount", amount),
		zap.String("payment_id", paymentID),
	)

	return &QRPaymentRequest{
		PaymentID:     paymentID,
		QRData:        string(qrData),
		QRCodeDataURL: dataURL,
		TransactionID: txn.TransactionID,
		Amount:        amount,
	}, nil
}

// InitiateQRPayment attaches a payer to a published payment request and
// opens a provider payment intent for it. The attach is a conditional
// single-row update, so of two concurrent payers exactly one wins; the
// loser sees ErrInvalidPaymentID. The payer balance is checked here but
// not held.
func (s *service) InitiateQRPayment(ctx context.Context, paymentID string, payerUserID uint, methodRef string) (*QRInitiationResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("qr_initiate", time.Since(start)) }()

	txn, err := s.ledger.GetPendingTransactionByReference(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrInvalidPaymentID
		}
		return nil, err
	}
	if txn.ToWalletID == nil {
		return nil, ErrInvalidPaymentID
	}

	payerWallet, err := s.GetWallet(ctx, payerUserID)
	if err != nil {
		return nil, err
	}
	if payerWallet.ID == *txn.ToWalletID {
		return nil, ErrSelfTransfer
	}
	if payerWallet.Balance < txn.Amount {
		return nil, ErrInsufficientFunds
	}
	if _, err := s.methods.GetByProviderRef(payerUserID, methodRef); err != nil {
		if errors.Is(err, repositories.ErrPaymentMethodNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}

	claimed, err := s.ledger.AttachPayer(txn.ID, payerWallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach payer: %w", err)
	}
	if !claimed {
		// Another payer got there first, or the request expired.
		return nil, ErrInvalidPaymentID
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, txn.Amount, txn.Currency, payerWallet.ProviderCustomerID, methodRef)
	if err != nil {
		s.releaseClaim(txn.TransactionID)
		s.metrics.RecordError("qr_initiate", "provider")
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	// Reload before saving: the struct read above predates the payer
	// attach, and a full-row save from it would null the payer out again.
	claimedTxn, err := s.ledger.GetTransactionByID(txn.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload payment request: %w", err)
	}
	claimedTxn.ProviderPaymentRef = intent.ID
	if err := s.ledger.UpdateTransaction(claimedTxn); err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	s.logger.Info("qr payment initiated",
		zap.String("payment_id", paymentID),
		zap.Uint("payer_user_id", payerUserID),
		zap.String("provider_ref", intent.ID),
	)

	return &QRInitiationResult{
		ProviderPaymentRef: intent.ID,
		ClientSecret:       intent.ClientSecret,
		Amount:             txn.Amount,
		Status:             intent.Status,
	}, nil
}

// ConfirmQRPayment confirms the provider intent and settles the payment:
// payer debited, payee credited, transaction completed, both parties
// notified. Re-confirming a settled payment returns ErrAlreadyProcessed
// with no balance change. A terminal non-succeeded confirmation marks the
// transaction failed.
func (s *service) ConfirmQRPayment(ctx context.Context, payerUserID uint, providerRef, methodRef string) (*QRConfirmationResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("qr_confirm", time.Since(start)) }()

	txn, err := s.ledger.GetTransactionByProviderRef(providerRef)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.Status == models.TransactionStatusCompleted {
		return nil, ErrAlreadyProcessed
	}
	if txn.Status == models.TransactionStatusFailed {
		return nil, ErrPaymentFailed
	}
	if txn.FromWalletID == nil || txn.ToWalletID == nil {
		return nil, ErrInvalidPaymentID
	}

	payerWallet, err := s.GetWallet(ctx, payerUserID)
	if err != nil {
		return nil, err
	}
	if payerWallet.ID != *txn.FromWalletID {
		return nil, ErrTransactionNotFound
	}

	intent, err := s.gateway.ConfirmPaymentIntent(ctx, providerRef, methodRef)
	if err != nil {
		s.metrics.RecordError("qr_confirm", "provider")
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}
	if intent.Status != payment.IntentStatusSucceeded {
		if failErr := s.failQRTransaction(txn); failErr != nil {
			s.logger.Error("failed to mark qr payment failed",
				zap.String("provider_ref", providerRef),
				zap.Error(failErr),
			)
		}
		s.metrics.RecordError("qr_confirm", "not_succeeded")
		return nil, fmt.Errorf("%w: payment intent status %q", ErrPaymentFailed, intent.Status)
	}

	// Settle with the provider-confirmed amount. A confirmation that does
	// not report an amount settles the requested figure.
	settled := intent.Amount
	if settled == 0 {
		settled = txn.Amount
	}
	result := &QRConfirmationResult{ProviderPaymentRef: providerRef, Amount: settled}

	var payeeUserID uint
	err = s.ledger.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		current, err := tx.GetTransactionByProviderRef(providerRef)
		if err != nil {
			return err
		}
		if current.Status == models.TransactionStatusCompleted {
			return ErrAlreadyProcessed
		}

		payer, payee, err := lockWalletPair(tx, *current.FromWalletID, *current.ToWalletID)
		if err != nil {
			return err
		}
		if payer.Balance < settled {
			return ErrInsufficientFunds
		}

		payer.Balance -= settled
		payee.Balance += settled
		if err := tx.Update(payer); err != nil {
			return err
		}
		if err := tx.Update(payee); err != nil {
			return err
		}

		current.Status = models.TransactionStatusCompleted
		current.Amount = settled
		if err := tx.UpdateTransaction(current); err != nil {
			return err
		}

		payeeUserID = payee.UserID
		result.TransactionID = current.TransactionID
		result.PayerBalance = payer.Balance
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) || errors.Is(err, ErrInsufficientFunds) {
			return nil, err
		}
		s.metrics.RecordError("qr_confirm", "ledger")
		return nil, fmt.Errorf("failed to settle qr payment: %w", err)
	}

	s.cache.InvalidateWallet(ctx, payerUserID)
	s.cache.InvalidateWallet(ctx, payeeUserID)
	s.metrics.RecordTransaction(models.TransactionTypeTransfer, settled)
	s.logger.Info("qr payment completed",
		zap.Uint("payer_user_id", payerUserID),
		zap.Uint("payee_user_id", payeeUserID),
		zap.Int64("amount", settled),
		zap.String("provider_ref", providerRef),
	)

	txnID := result.TransactionID
	s.notifyAsync("qr_payment", func(ctx context.Context) error {
		if err := s.notifier.NotifyQRPayment(ctx, payerUserID, payeeUserID, settled, txnID, notification.QRPaymentSent); err != nil {
			return err
		}
		return s.notifier.NotifyQRPayment(ctx, payeeUserID, payerUserID, settled, txnID, notification.QRPaymentReceived)
	})

	return result, nil
}

func (s *service) failQRTransaction(txn *models.Transaction) error {
	txn.Status = models.TransactionStatusFailed
	return s.ledger.UpdateTransaction(txn)
}

// releaseClaim detaches the payer from a still-pending payment request
// after a failed provider call, so the request can be claimed again
// instead of sitting locked until the expiry job fails it.
func (s *service) releaseClaim(transactionID string) {
	txn, err := s.ledger.GetTransactionByID(transactionID)
	if err != nil {
		s.logger.Error("failed to reload payment request for release",
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
		return
	}
	if txn.Status != models.TransactionStatusPending {
		return
	}
	txn.FromWalletID = nil
	if err := s.ledger.UpdateTransaction(txn); err != nil {
		s.logger.Error("failed to release payment request claim",
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
	}
}
