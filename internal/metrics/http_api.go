package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "melindex",
		Subsystem: "http_api",
		Name:      "requests_total",
		Help:      "Count of HTTP API requests.",
	}, []string{"route", "method", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "melindex",
		Subsystem: "http_api",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// HTTPAPI tracks metrics for the query API.
type HTTPAPI struct{}

func NewHTTPAPI() *HTTPAPI {
	return &HTTPAPI{}
}

func (m HTTPAPI) ObserveRequest(route, method string, code int, started time.Time) {
	if route == "" {
		route = "unknown"
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(time.Since(started).Seconds())
}
