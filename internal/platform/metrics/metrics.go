// Package metrics exposes Prometheus instrumentation for the operation
// pipeline. Collectors are registered on an injected registry so tests can
// isolate counters instead of sharing process-global state.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors the application records into.
type Metrics struct {
	registry *prometheus.Registry

	llmErrors     *prometheus.CounterVec
	operations    *prometheus.CounterVec
	taskPanics    prometheus.Counter
	llmLatency    prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New creates a Metrics instance with all collectors registered on a fresh
// registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		llmErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interviewer_llm_errors_total",
			Help: "Classified upstream AI provider errors by category and code.",
		}, []string{"category", "code"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interviewer_operations_total",
			Help: "Operations reaching a terminal state, by type and status.",
		}, []string{"operation_type", "status"}),
		taskPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interviewer_task_panics_total",
			Help: "Background task executions recovered from a panic.",
		}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interviewer_llm_request_duration_seconds",
			Help:    "Latency of successful AI provider calls.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interviewer_http_requests_total",
			Help: "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interviewer_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registry.MustRegister(
		m.llmErrors,
		m.operations,
		m.taskPanics,
		m.llmLatency,
		m.httpRequests,
		m.httpDurations,
	)

	return m
}

// RecordLLMError counts one classified upstream failure.
func (m *Metrics) RecordLLMError(category, code string) {
	m.llmErrors.WithLabelValues(category, code).Inc()
}

// RecordOperation counts one operation reaching a terminal state.
func (m *Metrics) RecordOperation(operationType, status string) {
	m.operations.WithLabelValues(operationType, status).Inc()
}

// RecordTaskPanic counts one recovered background task panic.
func (m *Metrics) RecordTaskPanic() {
	m.taskPanics.Inc()
}

// ObserveLLMLatency records the duration of a successful provider call.
func (m *Metrics) ObserveLLMLatency(seconds float64) {
	m.llmLatency.Observe(seconds)
}

// RecordHTTPRequest counts one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string, seconds float64) {
	m.httpRequests.WithLabelValues(route, status).Inc()
	m.httpDurations.WithLabelValues(route).Observe(seconds)
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
