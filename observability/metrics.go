package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	orders   *prometheus.CounterVec
}

var (
	swapMetricsOnce sync.Once
	swapRegistry    *Metrics
)

// SwapMetrics returns the lazily-initialised metrics registry used to record
// swap RPC activity and order lifecycle transitions.
func SwapMetrics() *Metrics {
	swapMetricsOnce.Do(func() {
		swapRegistry = &Metrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "swapvault",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total JSON-RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "swapvault",
				Subsystem: "rpc",
				Name:      "errors_total",
				Help:      "Total JSON-RPC errors segmented by method and error code.",
			}, []string{"method", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "swapvault",
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for JSON-RPC handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
			orders: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "swapvault",
				Subsystem: "engine",
				Name:      "orders_total",
				Help:      "Order lifecycle transitions segmented by action.",
			}, []string{"action"}),
		}
		prometheus.MustRegister(
			swapRegistry.requests,
			swapRegistry.errors,
			swapRegistry.latency,
			swapRegistry.orders,
		)
	})
	return swapRegistry
}

// ObserveRequest records the outcome and latency of one RPC request.
func (m *Metrics) ObserveRequest(method, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// ObserveError counts one failed RPC request by error code.
func (m *Metrics) ObserveError(method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, code).Inc()
}

// ObserveOrder counts one order lifecycle transition.
func (m *Metrics) ObserveOrder(action string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(action).Inc()
}
