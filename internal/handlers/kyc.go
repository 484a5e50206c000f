package handlers

import (
	"errors"

	"github.com/Mafunamiii/zoopwallet/internal/repositories"
	"github.com/Mafunamiii/zoopwallet/internal/services/kyc"
	"github.com/Mafunamiii/zoopwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// KYCHandler exposes verification submission and status lookup.
type KYCHandler struct {
	kycService kyc.Service
}

func NewKYCHandler(kycService kyc.Service) *KYCHandler {
	return &KYCHandler{
		kycService: kycService,
	}
}

func (h *KYCHandler) Submit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	verification, err := h.kycService.Submit(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to submit verification")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"kyc": verification})
}

func (h *KYCHandler) GetStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	verification, err := h.kycService.GetStatus(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return utils.NotFound(c, "No verification record")
		}
		return utils.InternalError(c, "Failed to get verification status")
	}

	return utils.Success(c, fiber.Map{"kyc": verification})
}
