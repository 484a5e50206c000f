package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/models"
	"github.com/Mafunamiii/zoopwallet/internal/repositories"
	"github.com/Mafunamiii/zoopwallet/internal/services/payment"
)

// fakeLedger is an in-memory WalletRepository. ExecuteInTransaction
// snapshots state and restores it on error, matching the all-or-nothing
// behavior of the real store.
type fakeLedger struct {
	mu           sync.Mutex
	wallets      map[uint]*models.Wallet
	transactions map[uint]*models.Transaction
	nextWalletID uint
	nextTxnID    uint
	failCreate   bool
	failTxnWrite bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		wallets:      make(map[uint]*models.Wallet),
		transactions: make(map[uint]*models.Transaction),
	}
}

func (f *fakeLedger) Create(wallet *models.Wallet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("forced create failure")
	}
	for _, w := range f.wallets {
		if w.UserID == wallet.UserID {
			return repositories.ErrDuplicateWallet
		}
	}
	f.nextWalletID++
	wallet.ID = f.nextWalletID
	cp := *wallet
	f.wallets[wallet.ID] = &cp
	return nil
}

func (f *fakeLedger) GetByID(id uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeLedger) GetByUserID(userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeLedger) Update(wallet *models.Wallet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wallets[wallet.ID]; !ok {
		return repositories.ErrWalletNotFound
	}
	cp := *wallet
	f.wallets[wallet.ID] = &cp
	return nil
}

func (f *fakeLedger) GetByIDForUpdate(id uint) (*models.Wallet, error)         { return f.GetByID(id) }
func (f *fakeLedger) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) { return f.GetByUserID(userID) }

func (f *fakeLedger) CreateTransaction(txn *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTxnWrite {
		return fmt.Errorf("forced transaction write failure")
	}
	f.nextTxnID++
	txn.ID = f.nextTxnID
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	cp := *txn
	f.transactions[txn.ID] = &cp
	return nil
}

func (f *fakeLedger) UpdateTransaction(txn *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[txn.ID]; !ok {
		return repositories.ErrTransactionNotFound
	}
	cp := *txn
	f.transactions[txn.ID] = &cp
	return nil
}

func (f *fakeLedger) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.transactions {
		if t.TransactionID == transactionID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeLedger) GetTransactionByProviderRef(providerRef string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.transactions {
		if t.ProviderPaymentRef == providerRef {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeLedger) GetPendingTransactionByReference(reference string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.transactions {
		if t.Reference == reference && t.Status == models.TransactionStatusPending {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeLedger) GetTransactionHistory(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, t := range f.transactions {
		if (t.FromWalletID != nil && *t.FromWalletID == walletID) ||
			(t.ToWalletID != nil && *t.ToWalletID == walletID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeLedger) AttachPayer(transactionID uint, payerWalletID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[transactionID]
	if !ok {
		return false, nil
	}
	if t.Status != models.TransactionStatusPending || t.FromWalletID != nil {
		return false, nil
	}
	id := payerWalletID
	t.FromWalletID = &id
	return true, nil
}

func (f *fakeLedger) GetExpiredPendingQR(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, t := range f.transactions {
		if t.Status == models.TransactionStatusPending && t.Reference != "" && t.CreatedAt.Before(cutoff) {
			out = append(out, *t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeLedger) FailTransactions(ctx context.Context, ids []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if t, ok := f.transactions[id]; ok && t.Status == models.TransactionStatusPending {
			t.Status = models.TransactionStatusFailed
		}
	}
	return nil
}

func (f *fakeLedger) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	f.mu.Lock()
	walletSnap := make(map[uint]*models.Wallet, len(f.wallets))
	for k, v := range f.wallets {
		cp := *v
		walletSnap[k] = &cp
	}
	txnSnap := make(map[uint]*models.Transaction, len(f.transactions))
	for k, v := range f.transactions {
		cp := *v
		txnSnap[k] = &cp
	}
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.wallets = walletSnap
		f.transactions = txnSnap
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeLedger) balance(walletID uint) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallets[walletID].Balance
}

// fakeMethods is an in-memory PaymentMethodRepository.
type fakeMethods struct {
	mu      sync.Mutex
	records []models.PaymentMethod
	nextID  uint
}

func newFakeMethods() *fakeMethods {
	return &fakeMethods{}
}

func (f *fakeMethods) Create(method *models.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	method.ID = f.nextID
	f.records = append(f.records, *method)
	return nil
}

func (f *fakeMethods) GetByProviderRef(userID uint, ref string) (*models.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].UserID == userID && f.records[i].ProviderMethodRef == ref {
			cp := f.records[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentMethodNotFound
}

func (f *fakeMethods) ExistsByProviderRef(userID uint, ref string) (bool, error) {
	_, err := f.GetByProviderRef(userID, ref)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeMethods) ListByUserID(userID uint) ([]models.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PaymentMethod
	for _, m := range f.records {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMethods) Delete(userID uint, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].UserID == userID && f.records[i].ProviderMethodRef == ref {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPaymentMethodNotFound
}

// fakeGateway simulates the payment provider with togglable failures.
type fakeGateway struct {
	mu             sync.Mutex
	intentCount    int
	payoutCount    int
	customerCount  int
	failIntent     bool
	failPayout     bool
	declineConfirm bool
	// confirmedAmount overrides the amount reported on confirmation,
	// simulating a provider that settles a different figure.
	confirmedAmount int64
	intents         map[string]*payment.PaymentIntent
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]*payment.PaymentIntent)}
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, email string) (*payment.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.customerCount++
	return &payment.Customer{ID: fmt.Sprintf("cus_fake_%d", g.customerCount), Email: email}, nil
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, customerRef, methodRef string) (*payment.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failIntent {
		return nil, &payment.ProviderError{Op: "create_payment_intent", Code: "card_declined", Err: fmt.Errorf("card declined")}
	}
	g.intentCount++
	intent := &payment.PaymentIntent{
		ID:           fmt.Sprintf("pi_fake_%d", g.intentCount),
		Status:       payment.IntentStatusRequiresConfirmation,
		Amount:       amount,
		ClientSecret: fmt.Sprintf("secret_fake_%d", g.intentCount),
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) ConfirmPaymentIntent(ctx context.Context, intentID, methodRef string) (*payment.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, &payment.ProviderError{Op: "confirm_payment_intent", Code: payment.CodeResourceMissing, Err: fmt.Errorf("no such intent")}
	}
	cp := *intent
	if g.declineConfirm {
		cp.Status = "requires_payment_method"
		return &cp, nil
	}
	cp.Status = payment.IntentStatusSucceeded
	if g.confirmedAmount != 0 {
		cp.Amount = g.confirmedAmount
	}
	return &cp, nil
}

func (g *fakeGateway) CreatePayout(ctx context.Context, amount int64, currency, customerRef string) (*payment.Payout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failPayout {
		return nil, &payment.ProviderError{Op: "create_payout", Code: "balance_insufficient", Err: fmt.Errorf("payout refused")}
	}
	g.payoutCount++
	return &payment.Payout{ID: fmt.Sprintf("po_fake_%d", g.payoutCount), Status: "paid", Amount: amount}, nil
}

func (g *fakeGateway) AttachPaymentMethod(ctx context.Context, methodRef, customerRef string) (*payment.Method, error) {
	return &payment.Method{ID: methodRef, Type: "card", CardBrand: "visa", CardLast4: "4242", CustomerID: customerRef}, nil
}

func (g *fakeGateway) DetachPaymentMethod(ctx context.Context, methodRef string) error { return nil }

func (g *fakeGateway) RetrievePaymentMethod(ctx context.Context, methodRef string) (*payment.Method, error) {
	return &payment.Method{ID: methodRef, Type: "card", CardBrand: "visa", CardLast4: "4242"}, nil
}

func (g *fakeGateway) ListPaymentMethods(ctx context.Context, customerRef string) ([]payment.Method, error) {
	return nil, nil
}

// fakeGate approves a fixed set of users.
type fakeGate struct {
	approved map[uint]bool
}

func (g *fakeGate) IsApproved(ctx context.Context, userID uint) (bool, error) {
	return g.approved[userID], nil
}

// recordingDispatcher captures notifications for assertions. Dispatch is
// asynchronous, so tests poll via count.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []string
}

func (d *recordingDispatcher) record(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) count(event string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e == event {
			n++
		}
	}
	return n
}

func (d *recordingDispatcher) NotifyDeposit(ctx context.Context, userID uint, amount int64, transactionID string) error {
	d.record("deposit")
	return nil
}

func (d *recordingDispatcher) NotifyWithdrawal(ctx context.Context, userID uint, amount int64, transactionID, status string) error {
	d.record("withdrawal")
	return nil
}

func (d *recordingDispatcher) NotifyTransfer(ctx context.Context, fromUserID, toUserID uint, amount int64, transactionID string, fromBalance, toBalance int64) error {
	d.record("transfer")
	return nil
}

func (d *recordingDispatcher) NotifyQRPayment(ctx context.Context, userID, counterpartyID uint, amount int64, transactionID, direction string) error {
	d.record("qr_" + direction)
	return nil
}

func (d *recordingDispatcher) NotifyWalletCreation(ctx context.Context, userID uint, initialBalance int64) error {
	d.record("wallet_creation")
	return nil
}

func (d *recordingDispatcher) NotifyPaymentMethodAdded(ctx context.Context, userID uint, cardBrand, last4 string) error {
	d.record("payment_method_added")
	return nil
}

// testEnv bundles a service with its fakes.
type testEnv struct {
	svc      Service
	ledger   *fakeLedger
	methods  *fakeMethods
	gateway  *fakeGateway
	gate     *fakeGate
	notifier *recordingDispatcher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		ledger:   newFakeLedger(),
		methods:  newFakeMethods(),
		gateway:  newFakeGateway(),
		gate:     &fakeGate{approved: make(map[uint]bool)},
		notifier: &recordingDispatcher{},
	}
	env.svc = NewService(env.ledger, env.methods, env.gateway, env.gate, env.notifier, nil, Config{}, nil, nil)
	return env
}

// newWallet provisions an approved user with a wallet, a stored payment
// method and a starting balance.
func (e *testEnv) newWallet(userID uint, balance int64, methodRef string) *models.Wallet {
	e.gate.approved[userID] = true
	w, err := e.svc.CreateWallet(context.Background(), userID, fmt.Sprintf("user%d@example.com", userID), balance)
	if err != nil {
		panic(err)
	}
	if methodRef != "" {
		e.methods.Create(&models.PaymentMethod{UserID: userID, ProviderMethodRef: methodRef, Type: "card"})
	}
	return w
}
