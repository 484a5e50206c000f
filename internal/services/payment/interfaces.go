// Package payment abstracts the external card-payment provider. The live
// implementation talks to Stripe; a deterministic simulator covers the fixed
// set of test payment methods so the money-movement paths stay fully
// testable without network access.
package payment

import "context"

// Payment intent statuses as reported by the provider.
const (
	IntentStatusSucceeded            = "succeeded"
	IntentStatusRequiresConfirmation = "requires_confirmation"
	IntentStatusRequiresAction       = "requires_action"
)

// Customer is a provider-side customer record.
type Customer struct {
	ID    string
	Email string
}

// PaymentIntent is the provider's view of a card payment. Amount is in
// minor units and is authoritative for balance mutations.
type PaymentIntent struct {
	ID           string
	Status       string
	Amount       int64
	ClientSecret string
}

// Payout is a provider-side transfer out of the platform.
type Payout struct {
	ID     string
	Status string
	Amount int64
}

// Method describes a provider payment method.
type Method struct {
	ID           string
	Type         string
	CardBrand    string
	CardLast4    string
	CardExpMonth int64
	CardExpYear  int64
	CustomerID   string
}

// Gateway is the contract surface consumed by the wallet service. Every
// call may fail with a *ProviderError carrying the upstream code; callers
// treat failures as abort-and-report, retries are caller policy.
type Gateway interface {
	CreateCustomer(ctx context.Context, email string) (*Customer, error)
	CreatePaymentIntent(ctx context.Context, amount int64, currency, customerRef, methodRef string) (*PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID, methodRef string) (*PaymentIntent, error)
	CreatePayout(ctx context.Context, amount int64, currency, customerRef string) (*Payout, error)
	AttachPaymentMethod(ctx context.Context, methodRef, customerRef string) (*Method, error)
	DetachPaymentMethod(ctx context.Context, methodRef string) error
	RetrievePaymentMethod(ctx context.Context, methodRef string) (*Method, error)
	ListPaymentMethods(ctx context.Context, customerRef string) ([]Method, error)
}
