package handlers

import (
	"errors"

	"github.com/Mafunamiii/zoopwallet/internal/models"
	"github.com/Mafunamiii/zoopwallet/internal/services/wallet"
	"github.com/Mafunamiii/zoopwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes the wallet service over HTTP.
type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// walletError maps service sentinels to HTTP responses.
func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, wallet.ErrTransactionNotFound),
		errors.Is(err, wallet.ErrPaymentMethodNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrWalletAlreadyExists),
		errors.Is(err, wallet.ErrPaymentMethodExists),
		errors.Is(err, wallet.ErrAlreadyProcessed):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrSelfTransfer),
		errors.Is(err, wallet.ErrInvalidPaymentID),
		errors.Is(err, wallet.ErrKYCNotApproved):
		return utils.BadRequest(c, err.Error())
	default:
		return utils.InternalError(c, err.Error())
	}
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		InitialBalance int64 `json:"initial_balance"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return utils.BadRequest(c, "Invalid request format")
	}

	w, err := h.walletService.CreateWallet(c.Context(), claims.UserID, claims.Email, input.InitialBalance)
	if err != nil {
		return walletError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	balance, err := h.walletService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{"balance": balance})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount          int64  `json:"amount"`
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be greater than 0")
	}

	result, err := h.walletService.Deposit(c.Context(), claims.UserID, input.Amount, input.PaymentMethodID)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Deposit successful",
		"result":  result,
	})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
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

	result, err := h.walletService.Withdraw(c.Context(), claims.UserID, input.Amount)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Withdrawal successful",
		"result":  result,
	})
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		ToUserID uint  `json:"to_user_id"`
		Amount   int64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be greater than 0")
	}

	result, err := h.walletService.Transfer(c.Context(), claims.UserID, input.ToUserID, input.Amount)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Transfer successful",
		"result":  result,
	})
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	transactions, err := h.walletService.GetTransactions(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{"transactions": transactions})
}

func (h *WalletHandler) GetPaymentStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	providerRef := c.Params("providerRef")
	if providerRef == "" {
		return utils.BadRequest(c, "Missing payment reference")
	}

	status, err := h.walletService.GetPaymentStatus(c.Context(), claims.UserID, providerRef)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{"payment": status})
}
