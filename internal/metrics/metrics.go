package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LabelService   = "service"
	LabelMethod    = "method"
	LabelEndpoint  = "endpoint"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelState     = "state"
)

// Metrics groups every collector the front end exports. Each instance owns
// its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Backend API
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec

	// Poll sessions
	PollSessionsActive  prometheus.Gauge
	PollSessionOutcomes *prometheus.CounterVec

	// Leads
	ScansStartedTotal     prometheus.Counter
	ReportsRequestedTotal *prometheus.CounterVec
	RateLimitedTotal      prometheus.Counter
}

func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{LabelService: serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{LabelMethod, LabelEndpoint, LabelStatus},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{LabelMethod, LabelEndpoint},
		),

		BackendRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "backend_requests_total",
				Help:        "Total number of requests sent to the scanning backend",
				ConstLabels: constLabels,
			},
			[]string{LabelOperation, LabelStatus},
		),

		BackendRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "backend_request_duration_seconds",
				Help:        "Scanning backend request duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{LabelOperation},
		),

		PollSessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "poll_sessions_active",
				Help:        "Number of scan status poll sessions currently running",
				ConstLabels: constLabels,
			},
		),

		PollSessionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "poll_session_outcomes_total",
				Help:        "Final state of finished poll sessions",
				ConstLabels: constLabels,
			},
			[]string{LabelState},
		),

		ScansStartedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "scans_started_total",
				Help:        "Scans accepted by the backend",
				ConstLabels: constLabels,
			},
		),

		ReportsRequestedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reports_requested_total",
				Help:        "Report requests accepted by the backend",
				ConstLabels: constLabels,
			},
			[]string{"report_type"},
		),

		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "scan_submissions_rate_limited_total",
				Help:        "Scan submissions rejected by the per-visitor limiter",
				ConstLabels: constLabels,
			},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BackendRequestsTotal,
		m.BackendRequestDuration,
		m.PollSessionsActive,
		m.PollSessionOutcomes,
		m.ScansStartedTotal,
		m.ReportsRequestedTotal,
		m.RateLimitedTotal,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency per route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// RecordBackendRequest is nil-safe so components can run without metrics.
func (m *Metrics) RecordBackendRequest(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.BackendRequestsTotal.WithLabelValues(operation, status).Inc()
	m.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.PollSessionsActive.Inc()
}

func (m *Metrics) SessionFinished(state string) {
	if m == nil {
		return
	}
	m.PollSessionsActive.Dec()
	m.PollSessionOutcomes.WithLabelValues(state).Inc()
}

func (m *Metrics) RecordScanStarted() {
	if m == nil {
		return
	}
	m.ScansStartedTotal.Inc()
}

func (m *Metrics) RecordReportRequested(reportType string) {
	if m == nil {
		return
	}
	if reportType == "" {
		reportType = "default"
	}
	m.ReportsRequestedTotal.WithLabelValues(reportType).Inc()
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
