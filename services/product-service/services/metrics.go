package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	stockReservations *prometheus.CounterVec
}

// NewMetrics registers the catalog counters on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		stockReservations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "stock_reservations_total",
			Help: "Stock reserve and release calls by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.stockReservations.WithLabelValues(result).Inc()
}
