package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// RegisterScansTotal counts scan attempts by outcome.
	RegisterScansTotal *prometheus.CounterVec
	// RegisterCheckoutsTotal counts finalized checkouts.
	RegisterCheckoutsTotal prometheus.Counter
	// RegisterCheckoutAmount records finalized receipt totals in cents.
	RegisterCheckoutAmount prometheus.Histogram
	// RegisterOpenLanes tracks lanes currently known to the service.
	RegisterOpenLanes prometheus.Gauge
)

// MustRegisterDomainMetrics initialises and registers register-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		RegisterScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "register_scans_total",
			Help:      "Count of item scans by item kind and outcome.",
		}, []string{"kind", "result"})
		RegisterCheckoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "register_checkouts_total",
			Help:      "Total number of finalized checkouts.",
		})
		RegisterCheckoutAmount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "register_checkout_total_cents",
			Help:      "Distribution of finalized receipt totals in cents.",
			Buckets:   []float64{100, 500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		})
		RegisterOpenLanes = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "register_open_lanes",
			Help:      "Number of register lanes held in memory.",
		})

		mustRegisterCollector(reg, RegisterScansTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				RegisterScansTotal = v
			}
		})
		mustRegisterCollector(reg, RegisterCheckoutsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				RegisterCheckoutsTotal = v
			}
		})
		mustRegisterCollector(reg, RegisterCheckoutAmount, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				RegisterCheckoutAmount = v
			}
		})
		mustRegisterCollector(reg, RegisterOpenLanes, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Gauge); ok {
				RegisterOpenLanes = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
