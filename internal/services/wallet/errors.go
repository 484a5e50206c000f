package wallet

import "errors"

// Service errors
var (
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrWalletAlreadyExists   = errors.New("user already has a wallet")
	ErrKYCNotApproved        = errors.New("kyc verification is not approved")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrSelfTransfer          = errors.New("cannot transfer to self")
	ErrPaymentMethodNotFound = errors.New("payment method not found or does not belong to this user")
	ErrPaymentMethodExists   = errors.New("payment method already exists")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrInvalidPaymentID      = errors.New("invalid payment id")
	ErrAlreadyProcessed      = errors.New("transaction already processed")
	ErrDepositFailed         = errors.New("deposit failed")
	ErrPayoutFailed          = errors.New("payout failed")
	ErrPaymentFailed         = errors.New("payment failed")
)
