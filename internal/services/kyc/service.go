// Package kyc exposes the verification status store and the approval
// predicate consumed by wallet creation.
package kyc

import (
	"context"
	"errors"

	"github.com/Mafunamiii/zoopwallet/internal/models"
	"github.com/Mafunamiii/zoopwallet/internal/repositories"
)

// Gate is the approval predicate the wallet service checks before creating
// a wallet.
type Gate interface {
	IsApproved(ctx context.Context, userID uint) (bool, error)
}

// Service manages verification records. Document upload and review live
// outside this service.
type Service interface {
	Gate
	Submit(ctx context.Context, userID uint) (*models.KYCVerification, error)
	GetStatus(ctx context.Context, userID uint) (*models.KYCVerification, error)
	SetStatus(ctx context.Context, userID uint, status string) error
}

type service struct {
	repo repositories.KYCRepository
}

func NewService(repo repositories.KYCRepository) Service {
	if repo == nil {
		panic("kyc repo is required")
	}
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	kyc := &models.KYCVerification{
		UserID: userID,
		Status: models.KYCStatusPending,
	}
	if err := s.repo.Create(kyc); err != nil {
		return nil, err
	}
	return kyc, nil
}

func (s *service) GetStatus(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	return s.repo.GetByUserID(userID)
}

func (s *service) SetStatus(ctx context.Context, userID uint, status string) error {
	switch status {
	case models.KYCStatusPending, models.KYCStatusApproved, models.KYCStatusRejected:
	default:
		return errors.New("invalid kyc status")
	}
	return s.repo.UpdateStatus(userID, status)
}

// IsApproved reports whether the user has an approved verification. A
// missing record counts as not approved.
func (s *service) IsApproved(ctx context.Context, userID uint) (bool, error) {
	kyc, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return false, nil
		}
		return false, err
	}
	return kyc.Status == models.KYCStatusApproved, nil
}
