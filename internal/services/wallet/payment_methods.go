package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mafunamiii/zoopwallet/internal/models"
	"github.com/Mafunamiii/zoopwallet/internal/repositories"
	"github.com/Mafunamiii/zoopwallet/internal/services/payment"

	"go.uber.org/zap"
)

// AddPaymentMethod attaches a provider payment method to the user's
// provider customer and stores a local record of it. Test methods skip
// the provider attach and are stored with synthetic card details.
func (s *service) AddPaymentMethod(ctx context.Context, userID uint, methodRef string) (*models.PaymentMethod, error) {
	if methodRef == "" {
		return nil, ErrPaymentMethodNotFound
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.methods.ExistsByProviderRef(userID, methodRef)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPaymentMethodExists
	}

	var attached *payment.Method
	if payment.IsTestMethod(methodRef) {
		attached, err = s.gateway.RetrievePaymentMethod(ctx, methodRef)
	} else {
		attached, err = s.gateway.AttachPaymentMethod(ctx, methodRef, wallet.ProviderCustomerID)
	}
	if err != nil {
		s.metrics.RecordError("add_payment_method", "provider")
		return nil, err
	}

	method := &models.PaymentMethod{
		UserID:            userID,
		ProviderMethodRef: attached.ID,
		Type:              attached.Type,
		CardBrand:         attached.CardBrand,
		CardLast4:         attached.CardLast4,
		CardExpMonth:      attached.CardExpMonth,
		CardExpYear:       attached.CardExpYear,
	}
	if err := s.methods.Create(method); err != nil {
		return nil, fmt.Errorf("failed to store payment method: %w", err)
	}

	s.logger.Info("payment method added",
		zap.Uint("user_id", userID),
		zap.String("method_ref", methodRef),
		zap.String("brand", method.CardBrand),
	)

	s.notifyAsync("payment_method_added", func(ctx context.Context) error {
		return s.notifier.NotifyPaymentMethodAdded(ctx, userID, method.CardBrand, method.CardLast4)
	})

	return method, nil
}

func (s *service) ListPaymentMethods(ctx context.Context, userID uint) ([]models.PaymentMethod, error) {
	if _, err := s.GetWallet(ctx, userID); err != nil {
		return nil, err
	}
	return s.methods.ListByUserID(userID)
}

// DeletePaymentMethod detaches the method at the provider and removes the
// local record. A provider resource_missing answer is tolerated so a
// half-deleted method can be cleaned up.
func (s *service) DeletePaymentMethod(ctx context.Context, userID uint, methodRef string) error {
	if _, err := s.methods.GetByProviderRef(userID, methodRef); err != nil {
		if errors.Is(err, repositories.ErrPaymentMethodNotFound) {
			return ErrPaymentMethodNotFound
		}
		return err
	}

	if !payment.IsTestMethod(methodRef) {
		if err := s.gateway.DetachPaymentMethod(ctx, methodRef); err != nil {
			var provErr *payment.ProviderError
			if !errors.As(err, &provErr) || provErr.Code != payment.CodeResourceMissing {
				s.metrics.RecordError("delete_payment_method", "provider")
				return err
			}
		}
	}

	if err := s.methods.Delete(userID, methodRef); err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	s.logger.Info("payment method deleted",
		zap.Uint("user_id", userID),
		zap.String("method_ref", methodRef),
	)
	return nil
}
