package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	payments         *prometheus.CounterVec
	callbackFailures prometheus.Counter
}

// NewMetrics registers the billing counters on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		payments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Persisted payment attempts by outcome.",
		}, []string{"status"}),
		callbackFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_order_callback_failures_total",
			Help: "Completed payments whose order status update failed.",
		}),
	}
}
