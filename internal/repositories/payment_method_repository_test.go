package repositories

import (
	"testing"

	"github.com/Mafunamiii/zoopwallet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethodRepository(t *testing.T) {
	repo := NewPaymentMethodRepository(newTestDB(t))

	method := &models.PaymentMethod{
		UserID:            1,
		ProviderMethodRef: "pm_abc",
		Type:              "card",
		CardBrand:         "visa",
		CardLast4:         "4242",
	}
	require.NoError(t, repo.Create(method))

	got, err := repo.GetByProviderRef(1, "pm_abc")
	require.NoError(t, err)
	assert.Equal(t, "visa", got.CardBrand)

	// The record is scoped to its owner.
	_, err = repo.GetByProviderRef(2, "pm_abc")
	require.ErrorIs(t, err, ErrPaymentMethodNotFound)

	exists, err := repo.ExistsByProviderRef(1, "pm_abc")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByProviderRef(2, "pm_abc")
	require.NoError(t, err)
	assert.False(t, exists)

	// Test methods may be stored by several users.
	require.NoError(t, repo.Create(&models.PaymentMethod{
		UserID:            2,
		ProviderMethodRef: "pm_abc",
		Type:              "card",
	}))

	methods, err := repo.ListByUserID(1)
	require.NoError(t, err)
	assert.Len(t, methods, 1)

	require.NoError(t, repo.Delete(1, "pm_abc"))
	_, err = repo.GetByProviderRef(1, "pm_abc")
	require.ErrorIs(t, err, ErrPaymentMethodNotFound)
	require.ErrorIs(t, repo.Delete(1, "pm_abc"), ErrPaymentMethodNotFound)

	// The other user's record survives.
	_, err = repo.GetByProviderRef(2, "pm_abc")
	require.NoError(t, err)
}

func TestKYCRepository(t *testing.T) {
	repo := NewKYCRepository(newTestDB(t))

	require.NoError(t, repo.Create(&models.KYCVerification{UserID: 1, Status: models.KYCStatusPending}))

	got, err := repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusPending, got.Status)

	require.NoError(t, repo.UpdateStatus(1, models.KYCStatusApproved))
	got, err = repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusApproved, got.Status)

	_, err = repo.GetByUserID(2)
	require.ErrorIs(t, err, ErrKYCNotFound)
	require.ErrorIs(t, repo.UpdateStatus(2, models.KYCStatusApproved), ErrKYCNotFound)
}
