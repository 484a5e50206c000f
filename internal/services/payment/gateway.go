package payment

import "context"

// dispatchingGateway routes each call to the simulator when the payment
// method belongs to the fixed test set, and to the live gateway otherwise.
// Calls without a payment method (customer creation, payouts, listing) go
// live.
type dispatchingGateway struct {
	live      Gateway
	simulated Gateway
}

// NewGateway wraps a live gateway with test-method simulation.
func NewGateway(live, simulated Gateway) Gateway {
	return &dispatchingGateway{live: live, simulated: simulated}
}

func (g *dispatchingGateway) pick(methodRef string) Gateway {
	if IsTestMethod(methodRef) {
		return g.simulated
	}
	return g.live
}

func (g *dispatchingGateway) CreateCustomer(ctx context.Context, email string) (*Customer, error) {
	return g.live.CreateCustomer(ctx, email)
}

func (g *dispatchingGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, customerRef, methodRef string) (*PaymentIntent, error) {
	return g.pick(methodRef).CreatePaymentIntent(ctx, amount, currency, customerRef, methodRef)
}

func (g *dispatchingGateway) ConfirmPaymentIntent(ctx context.Context, intentID, methodRef string) (*PaymentIntent, error) {
	return g.pick(methodRef).ConfirmPaymentIntent(ctx, intentID, methodRef)
}

func (g *dispatchingGateway) CreatePayout(ctx context.Context, amount int64, currency, customerRef string) (*Payout, error) {
	return g.live.CreatePayout(ctx, amount, currency, customerRef)
}

func (g *dispatchingGateway) AttachPaymentMethod(ctx context.Context, methodRef, customerRef string) (*Method, error) {
	return g.pick(methodRef).AttachPaymentMethod(ctx, methodRef, customerRef)
}

func (g *dispatchingGateway) DetachPaymentMethod(ctx context.Context, methodRef string) error {
	return g.pick(methodRef).DetachPaymentMethod(ctx, methodRef)
}

func (g *dispatchingGateway) RetrievePaymentMethod(ctx context.Context, methodRef string) (*Method, error) {
	return g.pick(methodRef).RetrievePaymentMethod(ctx, methodRef)
}

func (g *dispatchingGateway) ListPaymentMethods(ctx context.Context, customerRef string) ([]Method, error) {
	return g.live.ListPaymentMethods(ctx, customerRef)
}
