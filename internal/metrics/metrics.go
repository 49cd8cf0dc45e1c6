// Package metrics defines the Prometheus metrics for the daily-diet API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto at package init; the server exposes them on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dailydiet"

// RequestsTotal counts completed HTTP requests.
// Labels:
//   - method: HTTP method
//   - route:  the matched route pattern (e.g. "/meals/{id}"), not the raw
//     path, so meal ids don't explode the label cardinality
//   - status: numeric status code as a string
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// RequestDuration measures request handling time end-to-end.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// RequestsInFlight tracks requests currently being handled.
var RequestsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Current number of in-flight HTTP requests.",
	},
)
