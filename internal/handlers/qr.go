package handlers

import (
	"github.com/Mafunamiii/zoopwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *WalletHandler) GeneratePaymentQR(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be greater than 0")
	}

	request, err := h.walletService.GeneratePaymentQR(c.Context(), claims.UserID, input.Amount)
	if err != nil {
		return walletError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment_request": request})
}

func (h *WalletHandler) InitiateQRPayment(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		PaymentID       string `json:"payment_id"`
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.PaymentID == "" {
		return utils.BadRequest(c, "Missing payment id")
	}

	result, err := h.walletService.InitiateQRPayment(c.Context(), input.PaymentID, claims.UserID, input.PaymentMethodID)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{"initiation": result})
}

func (h *WalletHandler) ConfirmQRPayment(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		ProviderPaymentRef string `json:"provider_payment_ref"`
		PaymentMethodID    string `json:"payment_method_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.ProviderPaymentRef == "" {
		return utils.BadRequest(c, "Missing payment reference")
	}

	result, err := h.walletService.ConfirmQRPayment(c.Context(), claims.UserID, input.ProviderPaymentRef, input.PaymentMethodID)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Payment completed",
		"result":  result,
	})
}
