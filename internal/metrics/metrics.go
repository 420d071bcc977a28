package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the catalog: storage latency, fallback
// activations and admin activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	StorageDuration    *prometheus.HistogramVec
	StorageFallbacks   prometheus.Counter
	StorageDegraded    prometheus.Gauge
	CountryMutations   *prometheus.CounterVec
	AdminLoginAttempts *prometheus.CounterVec
}

// New registers every metric on reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StorageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visaguide_storage_operation_duration_seconds",
			Help:    "Duration of storage adapter operations by backend and operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"backend", "op"}),
		StorageFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "visaguide_storage_fallback_total",
			Help: "Total number of operations served by the file fallback after a primary failure",
		}),
		StorageDegraded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "visaguide_storage_degraded",
			Help: "1 while the catalog is served from the file fallback",
		}),
		CountryMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaguide_country_mutations_total",
			Help: "Total number of successful country mutations by operation",
		}, []string{"op"}),
		AdminLoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visaguide_admin_login_attempts_total",
			Help: "Admin login attempts by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveStorage records the duration of a storage call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveStorage(backend, op string, start time.Time) {
	if m == nil {
		return
	}
	m.StorageDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

// IncrementFallback records one call rerouted to the file fallback.
func (m *Metrics) IncrementFallback() {
	if m == nil {
		return
	}
	m.StorageFallbacks.Inc()
}

// SetDegraded flips the degraded gauge.
func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.StorageDegraded.Set(1)
		return
	}
	m.StorageDegraded.Set(0)
}

// IncrementMutation records a successful repository write.
func (m *Metrics) IncrementMutation(op string) {
	if m == nil {
		return
	}
	m.CountryMutations.WithLabelValues(op).Inc()
}

// IncrementLogin records a login attempt with outcome "success" or "failure".
func (m *Metrics) IncrementLogin(outcome string) {
	if m == nil {
		return
	}
	m.AdminLoginAttempts.WithLabelValues(outcome).Inc()
}
