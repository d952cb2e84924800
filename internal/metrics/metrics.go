package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"time"
)

const (
	JobResultSucceeded = "succeeded"
	JobResultRetried   = "retried"
	JobResultExhausted = "exhausted"
)

// Metrics holds all Prometheus collectors of the service
type Metrics struct {
	SSLUpdateJobs  *prometheus.CounterVec
	QueueJobs      *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	ReportedErrors *prometheus.CounterVec
	gatherer       prometheus.Gatherer
}

// New creates the collectors and registers them on reg, or on a fresh registry when
// reg is nil
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		SSLUpdateJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domainkeeper_ssl_update_jobs_total",
			Help: "SSL update job executions by action and repository outcome",
		}, []string{"action", "outcome"}),
		QueueJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domainkeeper_queue_jobs_total",
			Help: "Queued job attempts by job name and result",
		}, []string{"job", "result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domainkeeper_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domainkeeper_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ReportedErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domainkeeper_reported_errors_total",
			Help: "Errors sent to the operator error channel by source",
		}, []string{"source"}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveSSLUpdate(action, outcome string) {
	m.SSLUpdateJobs.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) ObserveJob(job, result string) {
	m.QueueJobs.WithLabelValues(job, result).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncReportedError(source string) {
	m.ReportedErrors.WithLabelValues(source).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
