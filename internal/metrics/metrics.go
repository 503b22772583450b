// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "connect",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "workflow_transitions_total",
		Help:      "Gate-pass decisions and query resolutions.",
	}, []string{"workflow", "status"})

	QueuePublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "activity_publish_failures_total",
		Help:      "Activity events that could not be queued.",
	})

	ActivityPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Name:      "activity_persisted_total",
		Help:      "Activity events written by the consumer, by result.",
	}, []string{"result"})
)
