// Package metrics defines and registers the Prometheus metrics of the web
// client. It is the single source of truth for metric names, labels, and
// help strings; metrics register with the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bakery_web"

// RequestsTotal counts handled browser requests.
// Labels:
//   - method: HTTP method
//   - path: the routed pattern, not the raw URL
//   - status: numeric response status
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of browser requests handled.",
	},
	[]string{"method", "path", "status"},
)

// RequestDuration measures end-to-end handling time of browser requests.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of browser request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// UpstreamRequestsTotal counts calls to the scheduling REST API.
// Labels:
//   - method: HTTP method
//   - path: upstream path with the query string stripped
//   - result: numeric status, or "transport_error" when no response arrived
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of calls made to the scheduling API.",
	},
	[]string{"method", "path", "result"},
)

// StaleFetchesDiscarded counts shift-range fetches whose results arrived
// after a newer fetch for the same view had been issued.
var StaleFetchesDiscarded = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_fetches_discarded_total",
		Help:      "Total number of superseded shift fetches discarded.",
	},
)
