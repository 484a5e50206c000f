package payment

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v72"
)

// Upstream error codes the wallet service special-cases.
const (
	CodeResourceMissing = "resource_missing"
)

// ProviderError wraps an upstream payment provider failure, preserving the
// original failure reason and code.
type ProviderError struct {
	Op   string
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment provider %s failed (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("payment provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// wrapErr converts any provider SDK error into a *ProviderError, lifting
// the Stripe error code when available.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &ProviderError{Op: op, Code: string(stripeErr.Code), Err: err}
	}
	return &ProviderError{Op: op, Err: err}
}
