// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var consumerStates = []string{"idle", "fetching", "applying", "committed", "failed"}

var (
	consumerFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "fetch_total",
		Help:      "Count of block fetch attempts.",
	}, []string{"chain", "status"})

	consumerFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of block fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain", "status"})

	consumerApplyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "apply_total",
		Help:      "Count of block apply attempts.",
	}, []string{"chain", "status"})

	consumerApplyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "apply_duration_seconds",
		Help:      "Duration of applying a block in one storage transaction.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"chain", "status"})

	consumerBlockTxs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "block_transactions",
		Help:      "Number of transactions per applied block.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"chain"})

	consumerClientLookupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "client_lookup_total",
		Help:      "Count of supplemental coin lookups against the node.",
	}, []string{"chain", "kind", "status"})

	consumerClientLookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "client_lookup_duration_seconds",
		Help:      "Duration of supplemental coin lookups.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain", "kind", "status"})

	consumerViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "contract_violations_total",
		Help:      "Count of contract violations that halted indexing.",
	}, []string{"chain", "reason"})

	consumerIndexedHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "indexed_height",
		Help:      "Highest committed block height.",
	}, []string{"chain"})

	consumerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "melindex",
		Subsystem: "consumer",
		Name:      "state",
		Help:      "Current consumer state, 1 for the active one.",
	}, []string{"chain", "state"})
)

// Consumer tracks metrics for the block consumer.
type Consumer struct {
	chain string
}

// NewConsumer constructs a Consumer collector labelled with the indexed chain.
func NewConsumer(chain string) *Consumer {
	if chain == "" {
		chain = "unknown"
	}
	return &Consumer{chain: chain}
}

func (m Consumer) ObserveFetch(err error, started time.Time) {
	status := statusOf(err)
	consumerFetchTotal.WithLabelValues(m.chain, status).Inc()
	consumerFetchDuration.WithLabelValues(m.chain, status).Observe(time.Since(started).Seconds())
}

func (m Consumer) ObserveApply(err error, txs int, started time.Time) {
	status := statusOf(err)
	consumerApplyTotal.WithLabelValues(m.chain, status).Inc()
	consumerApplyDuration.WithLabelValues(m.chain, status).Observe(time.Since(started).Seconds())
	if err == nil {
		consumerBlockTxs.WithLabelValues(m.chain).Observe(float64(txs))
	}
}

// ObserveClientLookup records a coin lookup made while applying a block.
func (m Consumer) ObserveClientLookup(kind string, err error, started time.Time) {
	status := statusOf(err)
	consumerClientLookupTotal.WithLabelValues(m.chain, kind, status).Inc()
	consumerClientLookupDuration.WithLabelValues(m.chain, kind, status).Observe(time.Since(started).Seconds())
}

func (m Consumer) ObserveContractViolation(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	consumerViolationsTotal.WithLabelValues(m.chain, reason).Inc()
}

func (m Consumer) SetIndexedHeight(height uint64) {
	consumerIndexedHeight.WithLabelValues(m.chain).Set(float64(height))
}

// SetState marks state as the active one and clears the others.
func (m Consumer) SetState(state string) {
	for _, s := range consumerStates {
		value := 0.0
		if s == state {
			value = 1
		}
		consumerState.WithLabelValues(m.chain, s).Set(value)
	}
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
