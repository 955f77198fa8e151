package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		},
	)

	OperationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operations_failed_total",
			Help: "Total number of failed operations by error code",
		},
		[]string{"operation", "error_code"},
	)

	DecisionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_decisions_recorded_total",
			Help: "Total number of lender decisions recorded",
		},
		[]string{"decision"},
	)

	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "applications_submitted_total",
			Help: "Total number of loan applications submitted",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of decision notifications by channel and status",
		},
		[]string{"channel", "status"},
	)

	LoginAttemptsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "login_attempts_throttled_total",
			Help: "Total number of login attempts rejected by the rate limiter",
		},
	)
)
