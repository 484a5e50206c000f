package handlers

import (
	"github.com/Mafunamiii/zoopwallet/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires all HTTP routes.
func SetupRoutes(app *fiber.App, walletHandler *WalletHandler, kycHandler *KYCHandler, auth *middleware.AuthMiddleware) {
	app.Get("/health", HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", auth.Handler)

	// KYC
	kycGroup := api.Group("/kyc")
	kycGroup.Post("/", kycHandler.Submit)
	kycGroup.Get("/", kycHandler.GetStatus)

	// Wallet
	walletGroup := api.Group("/wallet")
	walletGroup.Post("/", walletHandler.CreateWallet)
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Get("/balance", walletHandler.GetBalance)
	walletGroup.Post("/deposit", walletHandler.Deposit)
	walletGroup.Post("/withdraw", walletHandler.Withdraw)
	walletGroup.Post("/transfer", walletHandler.Transfer)
	walletGroup.Get("/transactions", walletHandler.GetTransactions)
	walletGroup.Get("/payments/:providerRef", walletHandler.GetPaymentStatus)

	// QR payment protocol
	qrGroup := api.Group("/qr")
	qrGroup.Post("/generate", walletHandler.GeneratePaymentQR)
	qrGroup.Post("/initiate", walletHandler.InitiateQRPayment)
	qrGroup.Post("/confirm", walletHandler.ConfirmQRPayment)

	// Payment methods
	methods := api.Group("/payment-methods")
	methods.Post("/", walletHandler.AddPaymentMethod)
	methods.Get("/", walletHandler.ListPaymentMethods)
	methods.Delete("/:methodRef", walletHandler.DeletePaymentMethod)
}
