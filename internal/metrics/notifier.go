package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notifierPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "melindex",
	Subsystem: "notifier",
	Name:      "publish_total",
	Help:      "Count of committed block notifications by sink.",
}, []string{"sink", "status"})

// Notifier tracks delivery of committed block notifications.
type Notifier struct {
	sink string
}

func NewNotifier(sink string) *Notifier {
	if sink == "" {
		sink = "unknown"
	}
	return &Notifier{sink: sink}
}

func (m Notifier) ObservePublish(err error) {
	notifierPublishTotal.WithLabelValues(m.sink, statusOf(err)).Inc()
}

func (m Notifier) ObserveDrop() {
	notifierPublishTotal.WithLabelValues(m.sink, "dropped").Inc()
}
