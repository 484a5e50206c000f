package repositories

import "errors"

var (
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrDuplicateWallet       = errors.New("wallet already exists")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrKYCNotFound           = errors.New("kyc verification not found")
)
