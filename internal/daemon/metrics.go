package daemon

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/estalvi/internal/model"
)

// Metrics holds the daemon's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	reloadsTotal      *prometheus.CounterVec
	reloadDuration    prometheus.Histogram
	lastReload        prometheus.Gauge
	baseline          *prometheus.GaugeVec
	synthetic         *prometheus.GaugeVec
}

// NewMetrics creates and registers the daemon collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estalvi_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "estalvi_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estalvi_reloads_total",
			Help: "Total snapshot reloads by result.",
		}, []string{"result"}),
		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "estalvi_reload_duration_seconds",
			Help:    "Histogram of snapshot reload durations.",
			Buckets: prometheus.DefBuckets,
		}),
		lastReload: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estalvi_last_reload_timestamp_seconds",
			Help: "Unix time of the last successful reload.",
		}),
		baseline: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "estalvi_bucket_baseline",
			Help: "Resolved baseline total per bucket.",
		}, []string{"bucket"}),
		synthetic: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "estalvi_bucket_synthetic",
			Help: "1 when the bucket is served from synthetic fallback data.",
		}, []string{"bucket"}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.reloadsTotal,
		m.reloadDuration,
		m.lastReload,
		m.baseline,
		m.synthetic,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// WrapHandler records request count and latency for route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ReloadSucceeded records a successful reload and the new baselines.
func (m *Metrics) ReloadSucceeded(snap *model.Snapshot, took time.Duration) {
	if m == nil {
		return
	}
	m.reloadsTotal.WithLabelValues("ok").Inc()
	m.reloadDuration.Observe(took.Seconds())
	m.lastReload.Set(float64(snap.LoadedAt.Unix()))
	for _, b := range model.AllBuckets {
		s := snap.Series(b)
		m.baseline.WithLabelValues(b.String()).Set(s.Total())
		synthetic := 0.0
		if s.Source == model.SourceSynthetic {
			synthetic = 1
		}
		m.synthetic.WithLabelValues(b.String()).Set(synthetic)
	}
}

// ReloadFailed records a failed reload.
func (m *Metrics) ReloadFailed(took time.Duration) {
	if m == nil {
		return
	}
	m.reloadsTotal.WithLabelValues("error").Inc()
	m.reloadDuration.Observe(took.Seconds())
}
