package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shortlink"

// Metrics holds the service collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	inFlight       prometheus.Gauge
	shed           prometheus.Counter
	timeouts       prometheus.Counter
	aliasesCreated *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		shed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_shed_total",
			Help:      "Requests rejected because the concurrency limit was reached.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_timed_out_total",
			Help:      "Requests that exceeded the request deadline.",
		}),
		aliasesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aliases_created_total",
			Help:      "Aliases stored, split by generated or user supplied.",
		}, []string{"generated"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.inFlight,
		m.shed,
		m.timeouts,
		m.aliasesCreated,
	)

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	c := strconv.Itoa(code)
	m.requests.WithLabelValues(method, route, c).Inc()
	m.duration.WithLabelValues(method, route, c).Observe(elapsed.Seconds())
}

func (m *Metrics) IncInFlight() { m.inFlight.Inc() }

func (m *Metrics) DecInFlight() { m.inFlight.Dec() }

func (m *Metrics) IncShed() { m.shed.Inc() }

func (m *Metrics) IncTimeout() { m.timeouts.Inc() }

// TrackCacheSize exports the number of cached aliases as reported by size.
func (m *Metrics) TrackCacheSize(size func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "alias_cache_entries",
		Help:      "Aliases currently held in the resolve cache.",
	}, func() float64 { return float64(size()) }))
}

// IncAliasCreated counts a stored alias.
func (m *Metrics) IncAliasCreated(generated bool) {
	m.aliasesCreated.WithLabelValues(strconv.FormatBool(generated)).Inc()
}
