// Package metrics exposes Prometheus request metrics for the S3 core:
// one counter/histogram pair per matched operation, emitted by the
// dispatcher after every request it routes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the request-level metric vectors. A *Collector is
// shared read-only across requests; all methods are goroutine-safe
// (the underlying prometheus vectors are).
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestBytes    *prometheus.CounterVec
	authFailures    *prometheus.CounterVec
	activeUploads   prometheus.Gauge
	sweepsTotal     prometheus.Counter
	sweptUploads    prometheus.Counter
}

// NewCollector registers and returns a new Collector. Call it once per
// process; registering twice against the same registry panics.
func NewCollector() *Collector {
	return &Collector{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "s3core_requests_total",
			Help: "Total number of S3 requests, by matched operation and result status code.",
		}, []string{"operation", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "s3core_request_duration_seconds",
			Help:    "Request handling duration in seconds, by matched operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		requestBytes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "s3core_request_bytes_total",
			Help: "Total bytes transferred in request/response bodies, by matched operation and direction.",
		}, []string{"operation", "direction"}),

		authFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "s3core_auth_failures_total",
			Help: "Total authentication failures, by S3 error code.",
		}, []string{"code"}),

		activeUploads: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "s3core_active_multipart_uploads",
			Help: "Current count of in-progress multipart uploads tracked by the storage backend.",
		}),

		sweepsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "s3core_sweeps_total",
			Help: "Total number of multipart-upload sweep passes run.",
		}),

		sweptUploads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "s3core_swept_uploads_total",
			Help: "Total number of stale multipart uploads removed by the sweeper.",
		}),
	}
}

// RecordRequest records one dispatched request: its matched operation
// name, the HTTP status code the codec rendered, and how long handling
// took.
func (c *Collector) RecordRequest(operation string, status int, seconds float64) {
	c.requestsTotal.WithLabelValues(operation, statusLabel(status)).Inc()
	c.requestDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordBytes adds n bytes transferred in direction ("request" or
// "response") for operation to the running total.
func (c *Collector) RecordBytes(operation, direction string, n int64) {
	if n <= 0 {
		return
	}
	c.requestBytes.WithLabelValues(operation, direction).Add(float64(n))
}

// RecordAuthFailure increments the auth-failure counter for an S3
// error code (e.g. "SignatureDoesNotMatch", "AccessDenied").
func (c *Collector) RecordAuthFailure(code string) {
	c.authFailures.WithLabelValues(code).Inc()
}

// SetActiveUploads sets the current in-progress multipart upload gauge.
func (c *Collector) SetActiveUploads(n int) {
	c.activeUploads.Set(float64(n))
}

// RecordSweep records the completion of one sweeper pass that removed n
// stale multipart uploads.
func (c *Collector) RecordSweep(removed int) {
	c.sweepsTotal.Inc()
	c.sweptUploads.Add(float64(removed))
}

func statusLabel(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
