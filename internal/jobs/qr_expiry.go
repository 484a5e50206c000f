// Package jobs holds background maintenance loops.
package jobs

import (
	"context"
	"time"

	"github.com/Mafunamiii/zoopwallet/internal/repositories"

	"go.uber.org/zap"
)

const expiryBatchSize = 100

// QRExpiryJob fails pending QR payment requests older than the configured
// TTL so a payment request cannot be claimed or retried forever.
type QRExpiryJob struct {
	ledger   repositories.WalletRepository
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
}

func NewQRExpiryJob(ledger repositories.WalletRepository, ttl, interval time.Duration, logger *zap.Logger) *QRExpiryJob {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QRExpiryJob{
		ledger:   ledger,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start runs the expiry loop until the context is cancelled or Stop is
// called.
func (j *QRExpiryJob) Start(ctx context.Context) {
	j.logger.Info("starting qr payment expiry job",
		zap.Duration("ttl", j.ttl),
		zap.Duration("interval", j.interval),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("qr payment expiry job stopped")
			return
		case <-j.stop:
			j.logger.Info("qr payment expiry job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *QRExpiryJob) Stop() {
	close(j.stop)
}

// RunOnce processes a single batch of expired pending QR requests.
func (j *QRExpiryJob) RunOnce(ctx context.Context) {
	cutoff := time.Now().Add(-j.ttl)

	expired, err := j.ledger.GetExpiredPendingQR(ctx, cutoff, expiryBatchSize)
	if err != nil {
		j.logger.Error("failed to fetch expired qr payments", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	ids := make([]uint, 0, len(expired))
	for _, txn := range expired {
		ids = append(ids, txn.ID)
	}

	if err := j.ledger.FailTransactions(ctx, ids); err != nil {
		j.logger.Error("failed to expire qr payments", zap.Error(err))
		return
	}

	j.logger.Info("expired pending qr payments", zap.Int("count", len(ids)))
}
