// Package notification is the best-effort side channel fired after
// state-changing wallet operations. Delivery mechanics (email, SMS) live
// outside this service; failures here never roll back a completed
// financial operation.
package notification

import (
	"context"

	"go.uber.org/zap"
)

// QR payment notification directions.
const (
	QRPaymentSent     = "sent"
	QRPaymentReceived = "received"
)

// Dispatcher notifies users of wallet activity. All methods are best-effort.
type Dispatcher interface {
	NotifyDeposit(ctx context.Context, userID uint, amount int64, transactionID string) error
	NotifyWithdrawal(ctx context.Context, userID uint, amount int64, transactionID, status string) error
	NotifyTransfer(ctx context.Context, fromUserID, toUserID uint, amount int64, transactionID string, fromBalance, toBalance int64) error
	NotifyQRPayment(ctx context.Context, userID, counterpartyID uint, amount int64, transactionID, direction string) error
	NotifyWalletCreation(ctx context.Context, userID uint, initialBalance int64) error
	NotifyPaymentMethodAdded(ctx context.Context, userID uint, cardBrand, last4 string) error
}

type dispatcher struct {
	logger *zap.Logger
}

// NewDispatcher returns a Dispatcher that records notifications in the log.
func NewDispatcher(logger *zap.Logger) Dispatcher {
	return &dispatcher{logger: logger}
}

func (d *dispatcher) NotifyDeposit(ctx context.Context, userID uint, amount int64, transactionID string) error {
	d.logger.Info("notify deposit",
		zap.Uint("user_id", userID),
		zap.Int64("amount", amount),
		zap.String("transaction_id", transactionID),
	)
	return nil
}

func (d *dispatcher) NotifyWithdrawal(ctx context.Context, userID uint, amount int64, transactionID, status string) error {
	d.logger.Info("notify withdrawal",
		zap.Uint("user_id", userID),
		zap.Int64("amount", amount),
		zap.String("transaction_id", transactionID),
		zap.String("status", status),
	)
	return nil
}

func (d *dispatcher) NotifyTransfer(ctx context.Context, fromUserID, toUserID uint, amount int64, transactionID string, fromBalance, toBalance int64) error {
	d.logger.Info("notify transfer",
		zap.Uint("from_user_id", fromUserID),
		zap.Uint("to_user_id", toUserID),
		zap.Int64("amount", amount),
		zap.String("transaction_id", transactionID),
		zap.Int64("from_balance", fromBalance),
		zap.Int64("to_balance", toBalance),
	)
	return nil
}

func (d *dispatcher) NotifyQRPayment(ctx context.Context, userID, counterpartyID uint, amount int64, transactionID, direction string) error {
	d.logger.Info("notify qr payment",
		zap.Uint("user_id", userID),
		zap.Uint("counterparty_id", counterpartyID),
		zap.Int64("amount", amount),
		zap.String("transaction_id", transactionID),
		zap.String("direction", direction),
	)
	return nil
}

func (d *dispatcher) NotifyWalletCreation(ctx context.Context, userID uint, initialBalance int64) error {
	d.logger.Info("notify wallet creation",
		zap.Uint("user_id", userID),
		zap.Int64("initial_balance", initialBalance),
	)
	return nil
}

func (d *dispatcher) NotifyPaymentMethodAdded(ctx context.Context, userID uint, cardBrand, last4 string) error {
	d.logger.Info("notify payment method added",
		zap.Uint("user_id", userID),
		zap.String("card_brand", cardBrand),
		zap.String("last4", last4),
	)
	return nil
}
