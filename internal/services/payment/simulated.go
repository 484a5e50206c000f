package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mafunamiii/zoopwallet/internal/utils"

	"go.uber.org/zap"
)

// simulatedGateway produces deterministic successful results for test
// payment methods without touching the network. State transitions match the
// live gateway so both paths have identical downstream effects; created
// intents are remembered so confirmation reports the same amount the live
// provider would.
type simulatedGateway struct {
	logger *zap.Logger

	mu      sync.Mutex
	intents map[string]PaymentIntent
}

// NewSimulatedGateway returns the deterministic test-method gateway.
func NewSimulatedGateway(logger *zap.Logger) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &simulatedGateway{
		logger:  logger,
		intents: make(map[string]PaymentIntent),
	}
}

func (g *simulatedGateway) CreateCustomer(ctx context.Context, email string) (*Customer, error) {
	return &Customer{ID: "cus_simulated_" + utils.MustGenerateSecureToken(8), Email: email}, nil
}

func (g *simulatedGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, customerRef, methodRef string) (*PaymentIntent, error) {
	pi := &PaymentIntent{
		ID:           simulatedIntentPrefix + utils.MustGenerateSecureToken(16),
		Status:       IntentStatusSucceeded,
		Amount:       amount,
		ClientSecret: simulatedSecretPrefix + utils.MustGenerateSecureToken(16),
	}
	g.mu.Lock()
	g.intents[pi.ID] = *pi
	g.mu.Unlock()

	g.logger.Info("simulated payment intent",
		zap.String("intent_id", pi.ID),
		zap.Int64("amount", amount),
	)
	return pi, nil
}

func (g *simulatedGateway) ConfirmPaymentIntent(ctx context.Context, intentID, methodRef string) (*PaymentIntent, error) {
	g.mu.Lock()
	pi, ok := g.intents[intentID]
	g.mu.Unlock()
	if !ok {
		return nil, &ProviderError{
			Op:   "confirm payment intent",
			Code: CodeResourceMissing,
			Err:  fmt.Errorf("no such simulated intent: %s", intentID),
		}
	}

	pi.Status = IntentStatusSucceeded
	g.logger.Info("simulated payment intent confirmation",
		zap.String("intent_id", intentID),
		zap.Int64("amount", pi.Amount),
	)
	return &pi, nil
}

func (g *simulatedGateway) CreatePayout(ctx context.Context, amount int64, currency, customerRef string) (*Payout, error) {
	p := &Payout{
		ID:     simulatedPayoutPrefix + utils.MustGenerateSecureToken(16),
		Status: "paid",
		Amount: amount,
	}
	g.logger.Info("simulated payout", zap.String("payout_id", p.ID), zap.Int64("amount", amount))
	return p, nil
}

func (g *simulatedGateway) AttachPaymentMethod(ctx context.Context, methodRef, customerRef string) (*Method, error) {
	m := simulatedMethod(methodRef)
	m.CustomerID = customerRef
	return m, nil
}

func (g *simulatedGateway) DetachPaymentMethod(ctx context.Context, methodRef string) error {
	return nil
}

func (g *simulatedGateway) RetrievePaymentMethod(ctx context.Context, methodRef string) (*Method, error) {
	return simulatedMethod(methodRef), nil
}

func (g *simulatedGateway) ListPaymentMethods(ctx context.Context, customerRef string) ([]Method, error) {
	return nil, nil
}

// simulatedMethod synthesizes card metadata for a test payment method.
func simulatedMethod(methodRef string) *Method {
	brand := "visa"
	switch methodRef {
	case "pm_card_mastercard", "pm_card_mastercard_prepaid":
		brand = "mastercard"
	case "pm_card_amex":
		brand = "amex"
	case "pm_card_discover":
		brand = "discover"
	case "pm_card_diners":
		brand = "diners"
	case "pm_card_jcb":
		brand = "jcb"
	case "pm_card_unionpay":
		brand = "unionpay"
	}
	return &Method{
		ID:           methodRef,
		Type:         "card",
		CardBrand:    brand,
		CardLast4:    "4242",
		CardExpMonth: 12,
		CardExpYear:  2030,
	}
}
