package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"mlbvalue-mcp/internal/dataset"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the HTTP adapter and the dataset store.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	players      prometheus.Gauge
}

// NewMetrics registers the collectors on a private registry together with the
// process and Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mlbvalue",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mlbvalue",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mlbvalue",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mlbvalue",
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent reading and scoring the data file.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mlbvalue",
			Name:      "dataset_players",
			Help:      "Players in the published snapshot.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.loads, m.loadDuration, m.players,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLoad records a dataset load attempt. It fits dataset.Store.OnLoad.
func (m *Metrics) ObserveLoad(ev dataset.LoadEvent) {
	m.loadDuration.Observe(ev.Duration.Seconds())
	if ev.Err != nil {
		m.loads.WithLabelValues("error").Inc()
		return
	}
	m.loads.WithLabelValues("ok").Inc()
	if ev.Snapshot != nil && ev.Snapshot.Table != nil {
		m.players.Set(float64(ev.Snapshot.Table.Len()))
	}
}

// Instrument counts requests and observes their latency per route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
