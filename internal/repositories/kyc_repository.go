package repositories

import (
	"errors"
	"fmt"

	"github.com/Mafunamiii/zoopwallet/internal/models"

	"gorm.io/gorm"
)

// KYCRepository stores verification records. Document handling lives in a
// separate service; this store only tracks the approval status consumed by
// wallet creation.
type KYCRepository interface {
	Create(kyc *models.KYCVerification) error
	GetByUserID(userID uint) (*models.KYCVerification, error)
	UpdateStatus(userID uint, status string) error
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Create(kyc *models.KYCVerification) error {
	if err := r.db.Create(kyc).Error; err != nil {
		return fmt.Errorf("failed to create kyc verification: %w", err)
	}
	return nil
}

func (r *kycRepository) GetByUserID(userID uint) (*models.KYCVerification, error) {
	var kyc models.KYCVerification
	if err := r.db.Where("user_id = ?", userID).First(&kyc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, fmt.Errorf("failed to get kyc verification: %w", err)
	}
	return &kyc, nil
}

func (r *kycRepository) UpdateStatus(userID uint, status string) error {
	result := r.db.Model(&models.KYCVerification{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update kyc status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrKYCNotFound
	}
	return nil
}
