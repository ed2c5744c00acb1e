// Package metrics exposes Prometheus collectors for the HTTP surface and the
// domain operations worth alerting on. All recording methods are no-ops on a
// nil *Metrics so components can run without metrics wired.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names
const (
	MetricHTTPRequestsTotal          = "rentwise_http_requests_total"
	MetricHTTPRequestDuration        = "rentwise_http_request_duration_seconds"
	MetricUploadsTotal               = "rentwise_uploads_total"
	MetricNotificationsTotal         = "rentwise_notifications_total"
	MetricApplicationTransitionTotal = "rentwise_application_transitions_total"
)

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics owns a private registry and the application's collectors
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	uploads       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	transitions   *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go runtime
// and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricHTTPRequestsTotal,
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricHTTPRequestDuration,
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricUploadsTotal,
			Help: "Blob uploads by outcome after retries",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNotificationsTotal,
			Help: "Outbound notifications by channel and outcome",
		}, []string{"channel", "result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricApplicationTransitionTotal,
			Help: "Tenant application status changes",
		}, []string{"from", "to"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.uploads,
		m.notifications,
		m.transitions,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one served request. path must be the route template, not the raw URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// UploadFinished counts a blob upload outcome
func (m *Metrics) UploadFinished(err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result(err)).Inc()
}

// NotificationSent counts a notification attempt on channel (email, sms, message)
func (m *Metrics) NotificationSent(channel string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, result(err)).Inc()
}

// ApplicationTransition counts an application moving between statuses
func (m *Metrics) ApplicationTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
