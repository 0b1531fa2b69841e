package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dukapos_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "dukapos_http_request_duration_seconds",
		Help: "Duration of HTTP requests",
		// Sales and report queries are single-statement reads/writes; most
		// of the distribution sits under 100ms, so resolve that range.
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path", "status"})

	salesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dukapos_sales_recorded_total",
		Help: "Count of sale recording attempts by result",
	}, []string{"result"})

	revenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dukapos_revenue_total",
		Help: "Cumulative revenue from recorded sales",
	})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dukapos_auth_attempts_total",
		Help: "Count of authentication operations by result",
	}, []string{"operation", "result"})

	lowStockItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dukapos_low_stock_items",
		Help: "Number of items at or below the low-stock threshold",
	})

	factoryResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dukapos_factory_resets_total",
		Help: "Count of factory reset operations",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSale increments the sale counter for the given result.
func ObserveSale(result string) {
	salesRecorded.WithLabelValues(result).Inc()
}

// AddRevenue adds a recorded sale amount to the revenue counter.
func AddRevenue(amount float64) {
	if amount < 0 {
		return
	}
	revenueTotal.Add(amount)
}

// ObserveAuthAttempt records a register or login attempt with a result label.
func ObserveAuthAttempt(operation, result string) {
	authAttempts.WithLabelValues(operation, result).Inc()
}

// SetLowStockItems sets the low-stock gauge to a specific count.
func SetLowStockItems(count int) {
	if count < 0 {
		count = 0
	}
	lowStockItems.Set(float64(count))
}

// ObserveReset increments the factory reset counter.
func ObserveReset() {
	factoryResets.Inc()
}
