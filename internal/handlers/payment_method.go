package handlers

import (
	"github.com/Mafunamiii/zoopwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *WalletHandler) AddPaymentMethod(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.PaymentMethodID == "" {
		return utils.BadRequest(c, "Missing payment method id")
	}

	method, err := h.walletService.AddPaymentMethod(c.Context(), claims.UserID, input.PaymentMethodID)
	if err != nil {
		return walletError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment_method": method})
}

func (h *WalletHandler) ListPaymentMethods(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	methods, err := h.walletService.ListPaymentMethods(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{"payment_methods": methods})
}

func (h *WalletHandler) DeletePaymentMethod(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	methodRef := c.Params("methodRef")
	if methodRef == "" {
		return utils.BadRequest(c, "Missing payment method id")
	}

	if err := h.walletService.DeletePaymentMethod(c.Context(), claims.UserID, methodRef); err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Payment method deleted"})
}
