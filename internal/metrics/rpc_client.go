package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "melindex",
		Subsystem: "node_client",
		Name:      "operations_total",
		Help:      "Count of node client operations.",
	}, []string{"operation", "chain", "status"})
	nodeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "melindex",
		Subsystem: "node_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node client operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "chain", "status"})
)

// NodeClient tracks metrics for calls to blockchain nodes.
type NodeClient struct {
	chain string
}

// NewNodeClient constructs a metrics collector for node calls.
func NewNodeClient(chain string) *NodeClient {
	if chain == "" {
		chain = "unknown"
	}
	return &NodeClient{chain: chain}
}

// Observe records a single node call outcome and duration.
func (m NodeClient) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	nodeRequestsTotal.WithLabelValues(operation, m.chain, status).Inc()
	nodeRequestDuration.WithLabelValues(operation, m.chain, status).Observe(time.Since(started).Seconds())
}
