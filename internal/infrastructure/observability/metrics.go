package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Orchestration metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Upstream gateway metrics
	UpstreamCallsTotal   *prometheus.CounterVec
	UpstreamCallDuration *prometheus.HistogramVec

	// Store metrics
	AuditWriteFailures *prometheus.CounterVec
	PendingRecorded    *prometheus.CounterVec
	PendingCleared     prometheus.Counter

	// Reference data metrics
	ReferenceLookups    *prometheus.CounterVec
	CircuitBreakerState *prometheus.GaugeVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of remittance operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Remittance operation duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation"},
		),
		UpstreamCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_calls_total",
				Help:      "Total number of upstream gateway calls by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		UpstreamCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_call_duration_seconds",
				Help:      "Upstream gateway call duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		AuditWriteFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_write_failures_total",
				Help:      "Audit log entries that could not be written",
			},
			[]string{"type"},
		),
		PendingRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pending_recorded_total",
				Help:      "Failed attempts recorded as pending transactions",
			},
			[]string{"operation"},
		),
		PendingCleared: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pending_cleared_total",
				Help:      "Pending transaction rows deleted after a successful attempt",
			},
		),
		ReferenceLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reference_lookups_total",
				Help:      "Reference data lookups by kind and source",
			},
			[]string{"kind", "source"},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(
		m.OperationsTotal,
		m.OperationDuration,
		m.UpstreamCallsTotal,
		m.UpstreamCallDuration,
		m.AuditWriteFailures,
		m.PendingRecorded,
		m.PendingCleared,
		m.ReferenceLookups,
		m.CircuitBreakerState,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// The helpers below are safe to call on a nil *Metrics so services can run
// without a registry in tests.

func (m *Metrics) ObserveOperation(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveUpstream(endpoint, result string, started time.Time) {
	if m == nil {
		return
	}
	m.UpstreamCallsTotal.WithLabelValues(endpoint, result).Inc()
	m.UpstreamCallDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func (m *Metrics) AuditWriteFailed(logType string) {
	if m == nil {
		return
	}
	m.AuditWriteFailures.WithLabelValues(logType).Inc()
}

func (m *Metrics) PendingWritten(operation string) {
	if m == nil {
		return
	}
	m.PendingRecorded.WithLabelValues(operation).Inc()
}

func (m *Metrics) PendingDeleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.PendingCleared.Add(float64(n))
}

func (m *Metrics) ReferenceLookup(kind, source string) {
	if m == nil {
		return
	}
	m.ReferenceLookups.WithLabelValues(kind, source).Inc()
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(state)
}
