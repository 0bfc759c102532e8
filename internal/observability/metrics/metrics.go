// Package metrics defines the Prometheus metrics of the ims front end. It is the
// single place metric names, labels and help strings are declared; everything
// registers with the default registry through promauto and is served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	obserrors "github.com/target/ims-ui/internal/observability/errors"
)

const namespace = "ims"

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// BackendRequestsTotal counts calls made to the inventory backend.
// Labels:
//   - op: façade operation name (e.g. "get_all_products")
//   - result: "success" or "error"
//   - error_class: empty on success, "http_<code>" or an error type otherwise
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Total number of inventory backend calls by operation and result.",
	},
	[]string{"op", "result", "error_class"},
)

// BackendRequestDuration measures backend round-trip latency per operation.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of inventory backend calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// GuardDecisionsTotal counts route guard verdicts.
// Labels:
//   - guard: "protected" or "admin"
//   - decision: "render" or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Route guard decisions by guard and outcome.",
	},
	[]string{"guard", "decision"},
)

// SessionReadsTotal counts session reads by resulting state (valid, absent, corrupted).
var SessionReadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "reads_total",
		Help:      "Session store reads by resulting state.",
	},
	[]string{"state"},
)

// HTTPRequestDuration measures view handling latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of front-end HTTP requests by method and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "code"},
)

// ObserveBackendCall records the outcome and latency of one backend call.
func ObserveBackendCall(op string, d time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	BackendRequestsTotal.WithLabelValues(op, result, obserrors.Classify(err)).Inc()
	BackendRequestDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveGuardDecision records a route guard verdict.
func ObserveGuardDecision(guard string, allowed bool) {
	decision := "redirect"
	if allowed {
		decision = "render"
	}
	GuardDecisionsTotal.WithLabelValues(guard, decision).Inc()
}

// ObserveSessionRead records the state a session read resolved to.
func ObserveSessionRead(state string) {
	SessionReadsTotal.WithLabelValues(state).Inc()
}
