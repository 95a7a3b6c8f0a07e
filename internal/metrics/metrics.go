// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "laberr"

// Collector holds every metric the service records.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	CatalogRows         prometheus.Gauge
	CatalogLoaded       prometheus.Gauge
	CatalogLoadDuration prometheus.Gauge

	SearchesTotal  *prometheus.CounterVec
	ProposalsTotal *prometheus.CounterVec
}

// NewCollector registers all metrics on a fresh registry, together with
// the Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		CatalogRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "rows",
			Help:      "Number of records in the loaded error catalog.",
		}),

		CatalogLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "loaded",
			Help:      "1 if the error catalog loaded successfully, 0 otherwise.",
		}),

		CatalogLoadDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "load_duration_seconds",
			Help:      "Time taken to load the error catalog at startup.",
		}),

		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Searches by dimension and outcome (match, no_match, error).",
		}, []string{"dimension", "outcome"}),

		ProposalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proposal",
			Name:      "forwarded_total",
			Help:      "Proposal submissions by outcome.",
		}, []string{"outcome"}),
	}
}

// Handler returns the exposition handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CatalogStatus records the outcome of the startup load.
func (c *Collector) CatalogStatus(loaded bool, rows int, took time.Duration) {
	if loaded {
		c.CatalogLoaded.Set(1)
	} else {
		c.CatalogLoaded.Set(0)
	}
	c.CatalogRows.Set(float64(rows))
	c.CatalogLoadDuration.Set(took.Seconds())
}

// Search records one search outcome.
func (c *Collector) Search(dimension, outcome string) {
	c.SearchesTotal.WithLabelValues(dimension, outcome).Inc()
}

// ProposalForwarded records one proposal outcome.
func (c *Collector) ProposalForwarded(outcome string) {
	c.ProposalsTotal.WithLabelValues(outcome).Inc()
}
