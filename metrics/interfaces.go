// Package metrics provides Prometheus-compatible metrics for the activity board.
//
// Two registries implement the same interface:
//   - ScrapeRegistry (server): metrics live in a Prometheus registry served on /metrics.
//   - PushRegistry (CLI): metrics accumulate in memory and are sent in a single
//     remote-write request to VictoriaMetrics/Prometheus when Push is called.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Gauge is a metric that represents a single numerical value that can go up and down.
type Gauge interface {
	Set(float64)
}

// Counter is a monotonically increasing metric.
type Counter interface {
	Inc()
	// Add adds v to the counter. It panics if v is negative.
	Add(v float64)
}

// CounterVec is a Counter partitioned by labels.
type CounterVec interface {
	With(prometheus.Labels) Counter
}

// Registry creates and registers metrics.
type Registry interface {
	NewGauge(opts prometheus.GaugeOpts) (Gauge, error)
	NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error)
}
