package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/models"
	"github.com/Mafunamiii/zoopwallet/internal/repositories"
	"github.com/Mafunamiii/zoopwallet/internal/services/kyc"
	"github.com/Mafunamiii/zoopwallet/internal/services/notification"
	"github.com/Mafunamiii/zoopwallet/internal/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	ledger   repositories.WalletRepository
	methods  repositories.PaymentMethodRepository
	gateway  payment.Gateway
	kycGate  kyc.Gate
	notifier notification.Dispatcher
	cache    Cache
	config   Config
	metrics  MetricsCollector
	logger   *zap.Logger
}

// NewService creates a new wallet service.
func NewService(
	ledger repositories.WalletRepository,
	methods repositories.PaymentMethodRepository,
	gateway payment.Gateway,
	kycGate kyc.Gate,
	notifier notification.Dispatcher,
	cache Cache,
	config Config,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	if ledger == nil {
		panic("ledger repo is required")
	}
	if methods == nil {
		panic("payment method repo is required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}
	if kycGate == nil {
		panic("kyc gate is required")
	}
	if notifier == nil {
		panic("notification dispatcher is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.QRPaymentTTL == 0 {
		config.QRPaymentTTL = DefaultQRPaymentTTL
	}
	if config.HistoryLimit == 0 {
		config.HistoryLimit = DefaultHistoryLimit
	}

	// Cache and metrics are optional.
	if cache == nil {
		cache = noopCache{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		ledger:   ledger,
		methods:  methods,
		gateway:  gateway,
		kycGate:  kycGate,
		notifier: notifier,
		cache:    cache,
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreateWallet provisions a wallet for a KYC-approved user. The provider
// customer is created before the wallet row, so a provider failure leaves
// no partial state behind.
func (s *service) CreateWallet(ctx context.Context, userID uint, email string, initialBalance int64) (*models.Wallet, error) {
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}

	approved, err := s.kycGate.IsApproved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check kyc status: %w", err)
	}
	if !approved {
		return nil, ErrKYCNotApproved
	}

	if _, err := s.ledger.GetByUserID(userID); err == nil {
		return nil, ErrWalletAlreadyExists
	} else if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	customer, err := s.gateway.CreateCustomer(ctx, email)
	if err != nil {
		s.metrics.RecordError("create_wallet", "provider")
		return nil, err
	}

	wallet := &models.Wallet{
		UserID:             userID,
		Balance:            initialBalance,
		Currency:           s.config.DefaultCurrency,
		ProviderCustomerID: customer.ID,
	}

	var initialTxnID string
	err = s.ledger.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if err := tx.Create(wallet); err != nil {
			return err
		}
		if initialBalance > 0 {
			txn := &models.Transaction{
				TransactionID: uuid.NewString(),
				Type:          models.TransactionTypeDeposit,
				Amount:        initialBalance,
				Currency:      wallet.Currency,
				ToWalletID:    &wallet.ID,
				Status:        models.TransactionStatusCompleted,
			}
			if err := tx.CreateTransaction(txn); err != nil {
				return err
			}
			initialTxnID = txn.TransactionID
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return nil, ErrWalletAlreadyExists
		}
		s.metrics.RecordError("create_wallet", "ledger")
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.cache.CacheWallet(ctx, wallet)
	s.logger.Info("wallet created",
		zap.Uint("user_id", userID),
		zap.Uint("wallet_id", wallet.ID),
		zap.Int64("initial_balance", initialBalance),
	)

	// Notification failures during creation are swallowed.
	s.notifyAsync("wallet_creation", func(ctx context.Context) error {
		if err := s.notifier.NotifyWalletCreation(ctx, userID, initialBalance); err != nil {
			return err
		}
		if initialTxnID != "" {
			return s.notifier.NotifyDeposit(ctx, userID, initialBalance, initialTxnID)
		}
		return nil
	})

	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if wallet, ok, err := s.cache.GetWallet(ctx, userID); err == nil && ok {
		return wallet, nil
	}

	wallet, err := s.ledger.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	s.cache.CacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (int64, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Deposit moves card money into the wallet. The credited figure is the
// provider-confirmed amount, never the caller-supplied one, and the local
// write is idempotent on the provider payment reference so a retry after a
// crash cannot double-credit.
func (s *service) Deposit(ctx context.Context, userID uint, amount int64, methodRef string) (*DepositResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("deposit", time.Since(start)) }()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.methods.GetByProviderRef(userID, methodRef); err != nil {
		if errors.Is(err, repositories.ErrPaymentMethodNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, amount, wallet.Currency, wallet.ProviderCustomerID, methodRef)
	if err != nil {
		s.metrics.RecordError("deposit", "provider")
		return nil, fmt.Errorf("%w: %w", ErrDepositFailed, err)
	}
	if intent.Status != payment.IntentStatusSucceeded {
		intent, err = s.gateway.ConfirmPaymentIntent(ctx, intent.ID, methodRef)
		if err != nil {
			s.metrics.RecordError("deposit", "provider")
			return nil, fmt.Errorf("%w: %w", ErrDepositFailed, err)
		}
	}
	if intent.Status != payment.IntentStatusSucceeded {
		s.metrics.RecordError("deposit", "not_succeeded")
		return nil, fmt.Errorf("%w: payment intent status %q", ErrDepositFailed, intent.Status)
	}

	credited := intent.Amount
	result := &DepositResult{Amount: credited, ProviderPaymentRef: intent.ID}

	err = s.ledger.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		// Idempotency guard: a previous attempt may have applied this
		// provider payment already.
		if _, err := tx.GetTransactionByProviderRef(intent.ID); err == nil {
			return ErrAlreadyProcessed
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}

		locked, err := tx.GetByIDForUpdate(wallet.ID)
		if err != nil {
			return err
		}
		locked.Balance += credited
		if err := tx.Update(locked); err != nil {
			return err
		}

		txn := &models.Transaction{
			TransactionID:      uuid.NewString(),
			Type:               models.TransactionTypeDeposit,
			Amount:             credited,
			Currency:           locked.Currency,
			ToWalletID:         &locked.ID,
			Status:             models.TransactionStatusCompleted,
			ProviderPaymentRef: intent.ID,
		}
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}

		result.Balance = locked.Balance
		result.TransactionID = txn.TransactionID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return nil, ErrAlreadyProcessed
		}
		s.metrics.RecordError("deposit", "ledger")
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	s.cache.InvalidateWallet(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeDeposit, credited)
	s.logger.Info("deposit completed",
		zap.Uint("user_id", userID),
		zap.Int64("amount", credited),
		zap.String("provider_ref", intent.ID),
	)

	txnID := result.TransactionID
	s.notifyAsync("deposit", func(ctx context.Context) error {
		return s.notifier.NotifyDeposit(ctx, userID, credited, txnID)
	})

	return result, nil
}

// Withdraw pays the wallet balance out through the provider. The balance is
// checked before the payout call; the debit happens only after the payout
// succeeds and is idempotent on the payout reference.
func (s *service) Withdraw(ctx context.Context, userID uint, amount int64) (*WithdrawResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("withdraw", time.Since(start)) }()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	payout, err := s.gateway.CreatePayout(ctx, amount, wallet.Currency, wallet.ProviderCustomerID)
	if err != nil {
		s.metrics.RecordError("withdraw", "provider")
		return nil, fmt.Errorf("%w: %w", ErrPayoutFailed, err)
	}

	result := &WithdrawResult{PayoutRef: payout.ID}
	err = s.ledger.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if _, err := tx.GetTransactionByProviderRef(payout.ID); err == nil {
			return ErrAlreadyProcessed
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}

		locked, err := tx.GetByIDForUpdate(wallet.ID)
		if err != nil {
			return err
		}
		if locked.Balance < amount {
			return ErrInsufficientFunds
		}
		locked.Balance -= amount
		if err := tx.Update(locked); err != nil {
			return err
		}

		txn := &models.Transaction{
			TransactionID:      uuid.NewString(),
			Type:               models.TransactionTypeWithdraw,
			Amount:             amount,
			Currency:           locked.Currency,
			FromWalletID:       &locked.ID,
			Status:             models.TransactionStatusCompleted,
			ProviderPaymentRef: payout.ID,
		}
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}

		result.Balance = locked.Balance
		result.TransactionID = txn.TransactionID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrAlreadyProcessed) {
			return nil, err
		}
		s.metrics.RecordError("withdraw", "ledger")
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	s.cache.InvalidateWallet(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeWithdraw, amount)
	s.logger.Info("withdrawal completed",
		zap.Uint("user_id", userID),
		zap.Int64("amount", amount),
		zap.String("payout_ref", payout.ID),
	)

	txnID := result.TransactionID
	s.notifyAsync("withdrawal", func(ctx context.Context) error {
		return s.notifier.NotifyWithdrawal(ctx, userID, amount, txnID, "completed")
	})

	return result, nil
}

// Transfer moves funds between two wallets with no provider involvement.
// Debit and credit commit as one atomic unit under ordered row locks.
func (s *service) Transfer(ctx context.Context, fromUserID, toUserID uint, amount int64) (*TransferResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("transfer", time.Since(start)) }()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}

	fromWallet, err := s.GetWallet(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	toWallet, err := s.GetWallet(ctx, toUserID)
	if err != nil {
		return nil, err
	}
	if fromWallet.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	result := &TransferResult{}
	err = s.ledger.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		src, dst, err := lockWalletPair(tx, fromWallet.ID, toWallet.ID)
		if err != nil {
			return err
		}
		if src.Balance < amount {
			return ErrInsufficientFunds
		}

		src.Balance -= amount
		dst.Balance += amount
		if err := tx.Update(src); err != nil {
			return err
		}
		if err := tx.Update(dst); err != nil {
			return err
		}

		txn := &models.Transaction{
			TransactionID: uuid.NewString(),
			Type:          models.TransactionTypeTransfer,
			Amount:        amount,
			Currency:      src.Currency,
			FromWalletID:  &src.ID,
			ToWalletID:    &dst.ID,
			Status:        models.TransactionStatusCompleted,
		}
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}

		result.FromBalance = src.Balance
		result.ToBalance = dst.Balance
		result.TransactionID = txn.TransactionID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		s.metrics.RecordError("transfer", "ledger")
		return nil, fmt.Errorf("transfer failed: %w", err)
	}

	s.cache.InvalidateWallet(ctx, fromUserID)
	s.cache.InvalidateWallet(ctx, toUserID)
	s.metrics.RecordTransaction(models.TransactionTypeTransfer, amount)
	s.logger.Info("transfer completed",
		zap.Uint("from_user_id", fromUserID),
		zap.Uint("to_user_id", toUserID),
		zap.Int64("amount", amount),
	)

	res := *result
	s.notifyAsync("transfer", func(ctx context.Context) error {
		return s.notifier.NotifyTransfer(ctx, fromUserID, toUserID, amount,
			res.TransactionID, res.FromBalance, res.ToBalance)
	})

	return result, nil
}

func (s *service) GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.config.HistoryLimit
	}
	return s.ledger.GetTransactionHistory(ctx, wallet.ID, limit, offset)
}

// GetPaymentStatus returns the local view of a provider payment, for
// polling after a deposit or QR confirmation.
func (s *service) GetPaymentStatus(ctx context.Context, userID uint, providerRef string) (*PaymentStatus, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	txn, err := s.ledger.GetTransactionByProviderRef(providerRef)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	belongs := (txn.FromWalletID != nil && *txn.FromWalletID == wallet.ID) ||
		(txn.ToWalletID != nil && *txn.ToWalletID == wallet.ID)
	if !belongs {
		return nil, ErrTransactionNotFound
	}

	return &PaymentStatus{
		Status:    txn.Status,
		Amount:    txn.Amount,
		CreatedAt: txn.CreatedAt,
		UpdatedAt: txn.UpdatedAt,
	}, nil
}

// lockWalletPair locks two wallets in ascending ID order so concurrent
// pair operations cannot deadlock. The wallets are returned in argument
// order.
func lockWalletPair(tx repositories.WalletRepository, firstID, secondID uint) (*models.Wallet, *models.Wallet, error) {
	lo, hi := firstID, secondID
	if lo > hi {
		lo, hi = hi, lo
	}

	locked := make(map[uint]*models.Wallet, 2)
	for _, id := range []uint{lo, hi} {
		w, err := tx.GetByIDForUpdate(id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = w
	}
	return locked[firstID], locked[secondID], nil
}

// notifyAsync dispatches a notification off the financial critical path.
func (s *service) notifyAsync(operation string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("notification dispatch panicked",
					zap.String("operation", operation),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn("notification failed",
				zap.String("operation", operation),
				zap.Error(err),
			)
		}
	}()
}
