package http

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the ledger's business counters
type Metrics struct {
	CartAdditions prometheus.Counter
	ViewsRecorded prometheus.Counter
}

// NewMetrics registers the ledger counters on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CartAdditions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_service_cart_additions_total",
			Help: "Total number of successful add-to-cart calls",
		}),
		ViewsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_service_views_recorded_total",
			Help: "Total number of product views recorded",
		}),
	}
	reg.MustRegister(m.CartAdditions, m.ViewsRecorded)
	return m
}
