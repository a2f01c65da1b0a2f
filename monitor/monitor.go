package monitor

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Claim workflow metrics
	ClaimsSubmittedCounter   prometheus.Counter
	ClaimValidationFailures  prometheus.Counter
	StatusTransitionsCounter prometheus.CounterVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter
)

// InitMetrics registers the Prometheus collectors. Call once before the
// router starts serving.
func InitMetrics() {
	const prefix = "claims_portal"

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ClaimsSubmittedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_claims_submitted_total",
			Help: "Total number of claims created",
		},
	)

	ClaimValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_claim_validation_failures_total",
			Help: "Total number of claim submissions rejected by validation",
		},
	)

	StatusTransitionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_status_transitions_total",
			Help: "Total number of claim status transitions",
		},
		[]string{"to_status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of failed authentications",
		},
	)
}

// Middleware records per-request metrics. The route template (c.FullPath) is
// used as the path label so /claims/:id stays one series, not one per id.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		HttpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HttpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// RecordClaimSubmitted increments the claim creation counter.
func RecordClaimSubmitted() {
	ClaimsSubmittedCounter.Inc()
}

// RecordValidationFailure increments the rejected-submission counter.
func RecordValidationFailure() {
	ClaimValidationFailures.Inc()
}

// RecordStatusTransition increments the transition counter for a target status.
func RecordStatusTransition(toStatus string) {
	StatusTransitionsCounter.WithLabelValues(toStatus).Inc()
}

// RegisterMetricsEndpoint exposes the Prometheus scrape endpoint.
func RegisterMetricsEndpoint(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
