// Package metrics exports wallet operation metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements the wallet service MetricsCollector against the
// default Prometheus registry.
type Collector struct {
	transactions *prometheus.CounterVec
	amounts      *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	durations    *prometheus.HistogramVec
}

func NewCollector() *Collector {
	return &Collector{
		transactions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transactions_total",
			Help: "Completed wallet transactions by type.",
		}, []string{"type"}),
		amounts: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_transaction_amount_cents",
			Help:    "Transaction amounts in minor units.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"type"}),
		errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_operation_errors_total",
			Help: "Wallet operation errors by operation and kind.",
		}, []string{"operation", "kind"}),
		durations: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_operation_duration_seconds",
			Help:    "Wallet operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (c *Collector) RecordTransaction(txType string, amount int64) {
	c.transactions.WithLabelValues(txType).Inc()
	c.amounts.WithLabelValues(txType).Observe(float64(amount))
}

func (c *Collector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

func (c *Collector) RecordOperationDuration(operation string, duration time.Duration) {
	c.durations.WithLabelValues(operation).Observe(duration.Seconds())
}
