package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "genomepuzzle"

// Metrics holds the site's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts served requests by route pattern and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes request latency by route pattern.
	RequestDuration *prometheus.HistogramVec

	// PageRendersTotal counts rendered HTML pages by page name.
	PageRendersTotal *prometheus.CounterVec

	// PublicFileReadsTotal counts public file reads by cache status.
	PublicFileReadsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served, by route and status",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency, by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		PageRendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "page_renders_total",
				Help:      "HTML pages rendered, by page",
			},
			[]string{"page"},
		),
		PublicFileReadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "public_file_reads_total",
				Help:      "Public file reads, by cache status",
			},
			[]string{"cache"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.PageRendersTotal,
		m.PublicFileReadsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
