package payment

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/customer"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"github.com/stripe/stripe-go/v72/paymentmethod"
	"github.com/stripe/stripe-go/v72/payout"
	"go.uber.org/zap"
)

// stripeGateway is the live Gateway implementation backed by stripe-go.
type stripeGateway struct {
	logger *zap.Logger
}

// NewStripeGateway configures the Stripe SDK with the given API key and
// returns the live gateway.
func NewStripeGateway(apiKey string, logger *zap.Logger) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	stripe.Key = apiKey
	return &stripeGateway{logger: logger}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, email string) (*Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx

	c, err := customer.New(params)
	if err != nil {
		return nil, wrapErr("create customer", err)
	}

	g.logger.Info("created provider customer", zap.String("customer_id", c.ID))
	return &Customer{ID: c.ID, Email: email}, nil
}

func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, customerRef, methodRef string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:           stripe.Int64(amount),
		Currency:         stripe.String(strings.ToLower(currency)),
		Customer:         stripe.String(customerRef),
		SetupFutureUsage: stripe.String("off_session"),
	}
	if methodRef != "" {
		params.PaymentMethod = stripe.String(methodRef)
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, wrapErr("create payment intent", err)
	}

	g.logger.Info("created payment intent",
		zap.String("intent_id", pi.ID),
		zap.String("status", string(pi.Status)),
		zap.Int64("amount", pi.Amount),
	)
	return &PaymentIntent{
		ID:           pi.ID,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (g *stripeGateway) ConfirmPaymentIntent(ctx context.Context, intentID, methodRef string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(methodRef),
	}
	params.Context = ctx

	pi, err := paymentintent.Confirm(intentID, params)
	if err != nil {
		return nil, wrapErr("confirm payment intent", err)
	}

	g.logger.Info("confirmed payment intent",
		zap.String("intent_id", pi.ID),
		zap.String("status", string(pi.Status)),
	)
	return &PaymentIntent{
		ID:           pi.ID,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (g *stripeGateway) CreatePayout(ctx context.Context, amount int64, currency, customerRef string) (*Payout, error) {
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
		Method:   stripe.String("instant"),
	}
	params.Context = ctx
	params.SetStripeAccount(customerRef)

	p, err := payout.New(params)
	if err != nil {
		return nil, wrapErr("create payout", err)
	}

	g.logger.Info("created payout",
		zap.String("payout_id", p.ID),
		zap.Int64("amount", p.Amount),
	)
	return &Payout{ID: p.ID, Status: string(p.Status), Amount: p.Amount}, nil
}

func (g *stripeGateway) AttachPaymentMethod(ctx context.Context, methodRef, customerRef string) (*Method, error) {
	// A method already attached elsewhere is detached first, mirroring the
	// provider's single-customer constraint.
	existing, err := g.RetrievePaymentMethod(ctx, methodRef)
	if err != nil {
		return nil, err
	}
	if existing.CustomerID == customerRef {
		return existing, nil
	}
	if existing.CustomerID != "" {
		if err := g.DetachPaymentMethod(ctx, methodRef); err != nil {
			return nil, err
		}
	}

	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerRef),
	}
	params.Context = ctx

	pm, err := paymentmethod.Attach(methodRef, params)
	if err != nil {
		return nil, wrapErr("attach payment method", err)
	}

	g.logger.Info("attached payment method",
		zap.String("method_id", pm.ID),
		zap.String("customer_id", customerRef),
	)
	return toMethod(pm), nil
}

func (g *stripeGateway) DetachPaymentMethod(ctx context.Context, methodRef string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := paymentmethod.Detach(methodRef, params); err != nil {
		return wrapErr("detach payment method", err)
	}
	return nil
}

func (g *stripeGateway) RetrievePaymentMethod(ctx context.Context, methodRef string) (*Method, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	pm, err := paymentmethod.Get(methodRef, params)
	if err != nil {
		return nil, wrapErr("retrieve payment method", err)
	}
	return toMethod(pm), nil
}

func (g *stripeGateway) ListPaymentMethods(ctx context.Context, customerRef string) ([]Method, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerRef),
		Type:     stripe.String("card"),
	}
	params.Context = ctx

	var methods []Method
	iter := paymentmethod.List(params)
	for iter.Next() {
		methods = append(methods, *toMethod(iter.PaymentMethod()))
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr("list payment methods", err)
	}
	return methods, nil
}

func toMethod(pm *stripe.PaymentMethod) *Method {
	m := &Method{
		ID:   pm.ID,
		Type: string(pm.Type),
	}
	if pm.Customer != nil {
		m.CustomerID = pm.Customer.ID
	}
	if pm.Card != nil {
		m.CardBrand = string(pm.Card.Brand)
		m.CardLast4 = pm.Card.Last4
		m.CardExpMonth = int64(pm.Card.ExpMonth)
		m.CardExpYear = int64(pm.Card.ExpYear)
	}
	return m
}
