package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "usg"

var AIRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "ai_requests_total",
		Help:      "Calls to the text generation API by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

var AILatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "ai_request_duration_seconds",
		Help:      "Latency of text generation calls",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
	},
	[]string{"operation"},
)

var Uploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "uploads_total",
		Help:      "Attachment uploads by outcome",
	},
	[]string{"outcome"},
)

var Exports = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "exports_total",
		Help:      "Project spreadsheet exports",
	},
)

var ProjectsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "projects_created_total",
		Help:      "Projects assembled from templates",
	},
)

// ObserveAI records one text generation call.
func ObserveAI(operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	AIRequests.WithLabelValues(operation, outcome).Inc()
	AILatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
