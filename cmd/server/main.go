package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/config"
	"github.com/Mafunamiii/zoopwallet/internal/handlers"
	"github.com/Mafunamiii/zoopwallet/internal/jobs"
	"github.com/Mafunamiii/zoopwallet/internal/logger"
	"github.com/Mafunamiii/zoopwallet/internal/metrics"
	"github.com/Mafunamiii/zoopwallet/internal/middleware"
	"github.com/Mafunamiii/zoopwallet/internal/repositories"
	"github.com/Mafunamiii/zoopwallet/internal/repositories/cache"
	"github.com/Mafunamiii/zoopwallet/internal/services/kyc"
	"github.com/Mafunamiii/zoopwallet/internal/services/notification"
	"github.com/Mafunamiii/zoopwallet/internal/services/payment"
	"github.com/Mafunamiii/zoopwallet/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	log := logger.Init(config.GetEnv("ENV", "development"))
	defer log.Sync()

	db, err := repositories.InitDB(repositories.DefaultDBConfig())
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	cacheService := cache.NewCacheService(redisClient, config.GetDurationEnv("CACHE_TTL", 5*time.Minute))

	walletRepo := repositories.NewWalletRepository(db)
	methodRepo := repositories.NewPaymentMethodRepository(db)
	kycRepo := repositories.NewKYCRepository(db)

	gateway := payment.NewGateway(
		payment.NewStripeGateway(config.StripeSecretKey(), log),
		payment.NewSimulatedGateway(log),
	)

	kycService := kyc.NewService(kycRepo)
	notifier := notification.NewDispatcher(log)

	walletConfig := wallet.Config{
		DefaultCurrency: config.GetEnv("DEFAULT_CURRENCY", "USD"),
		QRPaymentTTL:    config.GetDurationEnv("QR_PAYMENT_TTL", 15*time.Minute),
		HistoryLimit:    config.GetIntEnv("HISTORY_LIMIT", 20),
	}
	walletService := wallet.NewService(
		walletRepo,
		methodRepo,
		gateway,
		kycService,
		notifier,
		cacheService,
		walletConfig,
		metrics.NewCollector(),
		log,
	)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	expiryJob := jobs.NewQRExpiryJob(
		walletRepo,
		walletConfig.QRPaymentTTL,
		config.GetDurationEnv("QR_EXPIRY_INTERVAL", 30*time.Second),
		log,
	)
	go expiryJob.Start(jobCtx)

	app := fiber.New(fiber.Config{
		AppName:      "zoopwallet",
		ReadTimeout:  config.GetDurationEnv("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: config.GetDurationEnv("WRITE_TIMEOUT", 10*time.Second),
	})

	handlers.SetupRoutes(app,
		handlers.NewWalletHandler(walletService),
		handlers.NewKYCHandler(kycService),
		middleware.NewAuthMiddleware(),
	)

	go func() {
		addr := ":" + config.GetEnv("PORT", "8080")
		if err := app.Listen(addr); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancelJobs()
	expiryJob.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	if err := cacheService.Close(); err != nil {
		log.Error("failed to close redis", zap.Error(err))
	}
}
