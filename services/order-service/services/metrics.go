package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ordersCreated   prometheus.Counter
	releaseFailures prometheus.Counter
}

// NewMetrics registers the order counters on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders persisted in pending state.",
		}),
		releaseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "order_stock_release_failures_total",
			Help: "Compensating stock releases that failed and were not retried.",
		}),
	}
}
