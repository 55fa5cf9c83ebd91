// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the orchestrator.
//
// # Description
//
// This package implements Prometheus metrics for monitoring search
// operations. Metrics include:
//   - Request counters (by endpoint, strategy, status)
//   - Candidate and evaluation counters (by strategy)
//   - Search duration histograms
//   - Active search gauges
//
// # Integration
//
// Metrics are exposed via /metrics endpoint. Use with Prometheus + Grafana
// for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for search metrics
const searchSubsystem = "search"

// SearchMetrics holds all Prometheus metrics for search operations.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring search
// performance and LLM usage. Initialize once at startup via InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type SearchMetrics struct {
	// RequestsTotal counts search requests by endpoint, strategy, and status.
	// Labels: endpoint (solve, search, evaluate), strategy, status (success, error)
	RequestsTotal *prometheus.CounterVec

	// CandidatesGeneratedTotal counts candidate passages produced.
	// Labels: strategy
	CandidatesGeneratedTotal *prometheus.CounterVec

	// EvaluationsTotal counts candidate evaluations performed.
	// Labels: strategy
	EvaluationsTotal *prometheus.CounterVec

	// SearchDurationSeconds measures end-to-end search duration.
	// Labels: endpoint, strategy
	SearchDurationSeconds *prometheus.HistogramVec

	// StepsTaken measures search steps consumed per request.
	// Labels: strategy
	StepsTaken *prometheus.HistogramVec

	// ActiveSearches tracks currently running searches.
	// Labels: endpoint
	ActiveSearches *prometheus.GaugeVec

	// ErrorsTotal counts errors by type and endpoint.
	// Labels: endpoint, error_code (validation, llm_error, unknown_strategy, internal)
	ErrorsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of SearchMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *SearchMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once
// at application startup, after Prometheus registry is available.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *SearchMetrics {
	DefaultMetrics = &SearchMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: searchSubsystem,
				Name:      "requests_total",
				Help:      "Total number of search requests by endpoint, strategy, and status",
			},
			[]string{"endpoint", "strategy", "status"},
		),

		CandidatesGeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: searchSubsystem,
				Name:      "candidates_generated_total",
				Help:      "Total candidate passages generated by strategy",
			},
			[]string{"strategy"},
		),

		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: searchSubsystem,
				Name:      "evaluations_total",
				Help:      "Total candidate evaluations performed by strategy",
			},
			[]string{"strategy"},
		),

		SearchDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: searchSubsystem,
				Name:      "duration_seconds",
				Help:      "End-to-end search duration in seconds",
				Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"endpoint", "strategy"},
		),

		StepsTaken: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: searchSubsystem,
				Name:      "steps_taken",
				Help:      "Search steps consumed per request",
				Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
			},
			[]string{"strategy"},
		),

		ActiveSearches: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: searchSubsystem,
				Name:      "active_searches",
				Help:      "Number of currently running searches",
			},
			[]string{"endpoint"},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: searchSubsystem,
				Name:      "errors_total",
				Help:      "Total search errors by type and endpoint",
			},
			[]string{"endpoint", "error_code"},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Error Codes
// =============================================================================

// ErrorCode represents a categorized error type for metrics.
type ErrorCode string

const (
	// ErrorCodeValidation indicates request validation failure.
	ErrorCodeValidation ErrorCode = "validation"

	// ErrorCodeLLMError indicates LLM API failure.
	ErrorCodeLLMError ErrorCode = "llm_error"

	// ErrorCodeUnknownStrategy indicates an unrecognized strategy name.
	ErrorCodeUnknownStrategy ErrorCode = "unknown_strategy"

	// ErrorCodeInternal indicates internal server error.
	ErrorCodeInternal ErrorCode = "internal"
)

// =============================================================================
// Endpoint Names
// =============================================================================

// Endpoint represents an API endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointSolve is the fixed-round solve endpoint.
	EndpointSolve Endpoint = "solve"

	// EndpointSearch is the pluggable-strategy search endpoint.
	EndpointSearch Endpoint = "search"

	// EndpointEvaluate is the passage evaluation endpoint.
	EndpointEvaluate Endpoint = "evaluate"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed request.
func (m *SearchMetrics) RecordRequest(endpoint Endpoint, strategy string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), strategy, status).Inc()
}

// RecordError records a categorized error.
func (m *SearchMetrics) RecordError(endpoint Endpoint, code ErrorCode) {
	m.ErrorsTotal.WithLabelValues(string(endpoint), string(code)).Inc()
}

// RecordSearch records duration, steps, and LLM usage for one search.
func (m *SearchMetrics) RecordSearch(endpoint Endpoint, strategy string, seconds float64, steps, generated, evaluated int) {
	m.SearchDurationSeconds.WithLabelValues(string(endpoint), strategy).Observe(seconds)
	m.StepsTaken.WithLabelValues(strategy).Observe(float64(steps))
	m.CandidatesGeneratedTotal.WithLabelValues(strategy).Add(float64(generated))
	m.EvaluationsTotal.WithLabelValues(strategy).Add(float64(evaluated))
}

// SearchStarted increments the active searches gauge.
func (m *SearchMetrics) SearchStarted(endpoint Endpoint) {
	m.ActiveSearches.WithLabelValues(string(endpoint)).Inc()
}

// SearchEnded decrements the active searches gauge.
func (m *SearchMetrics) SearchEnded(endpoint Endpoint) {
	m.ActiveSearches.WithLabelValues(string(endpoint)).Dec()
}
