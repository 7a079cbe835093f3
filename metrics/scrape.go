package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScrapeRegistry implements Registry on top of a Prometheus registry that is
// exposed over HTTP.
type ScrapeRegistry struct {
	prom       *prometheus.Registry
	registerer prometheus.Registerer
}

// NewScrapeRegistry creates a ScrapeRegistry with the Go and process
// collectors installed. When prefix is non-empty, every metric created through
// the registry is named prefix_name.
func NewScrapeRegistry(prefix string) (*ScrapeRegistry, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("registering go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("registering process collector: %w", err)
	}

	var registerer prometheus.Registerer = reg
	if prefix != "" {
		registerer = prometheus.WrapRegistererWithPrefix(prefix+"_", reg)
	}

	return &ScrapeRegistry{prom: reg, registerer: registerer}, nil
}

// Handler returns the /metrics handler.
func (r *ScrapeRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// PrometheusRegistry returns the underlying registry.
func (r *ScrapeRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prom
}

func (r *ScrapeRegistry) NewGauge(opts prometheus.GaugeOpts) (Gauge, error) {
	g := prometheus.NewGauge(opts)
	if err := r.registerer.Register(g); err != nil {
		return nil, fmt.Errorf("registering gauge %q: %w", opts.Name, err)
	}
	return g, nil
}

func (r *ScrapeRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error) {
	c := prometheus.NewCounterVec(opts, labels)
	if err := r.registerer.Register(c); err != nil {
		return nil, fmt.Errorf("registering counter vec %q: %w", opts.Name, err)
	}
	return counterVec{c}, nil
}

// counterVec narrows With's return type to the package interface.
type counterVec struct{ vec *prometheus.CounterVec }

func (c counterVec) With(labels prometheus.Labels) Counter { return c.vec.With(labels) }
