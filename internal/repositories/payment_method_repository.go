package repositories

import (
	"errors"
	"fmt"

	"github.com/Mafunamiii/zoopwallet/internal/models"

	"gorm.io/gorm"
)

// PaymentMethodRepository stores provider payment methods mirrored locally.
type PaymentMethodRepository interface {
	Create(pm *models.PaymentMethod) error
	GetByProviderRef(userID uint, providerRef string) (*models.PaymentMethod, error)
	ExistsByProviderRef(userID uint, providerRef string) (bool, error)
	ListByUserID(userID uint) ([]models.PaymentMethod, error)
	Delete(userID uint, providerRef string) error
}

type paymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) Create(pm *models.PaymentMethod) error {
	if err := r.db.Create(pm).Error; err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

func (r *paymentMethodRepository) GetByProviderRef(userID uint, providerRef string) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	err := r.db.Where("user_id = ? AND provider_method_ref = ?", userID, providerRef).
		First(&pm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return &pm, nil
}

func (r *paymentMethodRepository) ExistsByProviderRef(userID uint, providerRef string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PaymentMethod{}).
		Where("user_id = ? AND provider_method_ref = ?", userID, providerRef).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count payment methods: %w", err)
	}
	return count > 0, nil
}

func (r *paymentMethodRepository) ListByUserID(userID uint) ([]models.PaymentMethod, error) {
	var pms []models.PaymentMethod
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return pms, nil
}

func (r *paymentMethodRepository) Delete(userID uint, providerRef string) error {
	result := r.db.Where("user_id = ? AND provider_method_ref = ?", userID, providerRef).
		Delete(&models.PaymentMethod{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}
