// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ============================================================================
// Test Helper: Create isolated metrics for testing
// ============================================================================

// newTestMetrics creates a SearchMetrics instance with a custom registry.
// This avoids conflicts with the global Prometheus registry and allows
// parallel testing.
func newTestMetrics(t *testing.T) *SearchMetrics {
	t.Helper()

	reg := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "requests_total",
			Help:      "Total number of search requests by endpoint, strategy, and status",
		},
		[]string{"endpoint", "strategy", "status"},
	)

	candidatesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "candidates_generated_total",
			Help:      "Total candidate passages generated by strategy",
		},
		[]string{"strategy"},
	)

	evaluationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "evaluations_total",
			Help:      "Total candidate evaluations performed by strategy",
		},
		[]string{"strategy"},
	)

	durationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"endpoint", "strategy"},
	)

	stepsTaken := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "steps_taken",
			Help:      "Search steps consumed per request",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
		},
		[]string{"strategy"},
	)

	activeSearches := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "active_searches",
			Help:      "Number of currently running searches",
		},
		[]string{"endpoint"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "errors_total",
			Help:      "Total search errors by type and endpoint",
		},
		[]string{"endpoint", "error_code"},
	)

	// Register all metrics with the test registry
	reg.MustRegister(
		requestsTotal,
		candidatesTotal,
		evaluationsTotal,
		durationSeconds,
		stepsTaken,
		activeSearches,
		errorsTotal,
	)

	return &SearchMetrics{
		RequestsTotal:            requestsTotal,
		CandidatesGeneratedTotal: candidatesTotal,
		EvaluationsTotal:         evaluationsTotal,
		SearchDurationSeconds:    durationSeconds,
		StepsTaken:               stepsTaken,
		ActiveSearches:           activeSearches,
		ErrorsTotal:              errorsTotal,
	}
}

// ============================================================================
// InitMetrics Tests
// ============================================================================

// Note: InitMetrics uses promauto which registers with the default Prometheus
// registry. This test must only run once per test binary execution since
// duplicate registration will panic.
var initMetricsTestOnce bool

func TestInitMetrics(t *testing.T) {
	if initMetricsTestOnce {
		t.Skip("InitMetrics can only be called once per test run (promauto restriction)")
	}
	initMetricsTestOnce = true

	result := InitMetrics()

	if result == nil {
		t.Fatal("InitMetrics() returned nil")
	}
	if DefaultMetrics == nil {
		t.Fatal("DefaultMetrics should be set after InitMetrics()")
	}
	if DefaultMetrics != result {
		t.Error("DefaultMetrics should equal the returned value")
	}

	if result.RequestsTotal == nil {
		t.Error("RequestsTotal should not be nil")
	}
	if result.CandidatesGeneratedTotal == nil {
		t.Error("CandidatesGeneratedTotal should not be nil")
	}
	if result.EvaluationsTotal == nil {
		t.Error("EvaluationsTotal should not be nil")
	}
	if result.SearchDurationSeconds == nil {
		t.Error("SearchDurationSeconds should not be nil")
	}
	if result.StepsTaken == nil {
		t.Error("StepsTaken should not be nil")
	}
	if result.ActiveSearches == nil {
		t.Error("ActiveSearches should not be nil")
	}
	if result.ErrorsTotal == nil {
		t.Error("ErrorsTotal should not be nil")
	}

	// Verify metrics can be used
	result.RecordRequest(EndpointSearch, "bfs", true)
	result.RecordError(EndpointSolve, ErrorCodeValidation)
	result.RecordSearch(EndpointSearch, "bfs", 1.5, 3, 9, 9)
	result.SearchStarted(EndpointSearch)
	result.SearchEnded(EndpointSearch)
}

// ============================================================================
// Constants Tests
// ============================================================================

func TestConstants(t *testing.T) {
	if metricsNamespace != "aleutian" {
		t.Errorf("metricsNamespace = %q, want %q", metricsNamespace, "aleutian")
	}
	if searchSubsystem != "search" {
		t.Errorf("searchSubsystem = %q, want %q", searchSubsystem, "search")
	}
}

func TestEndpointConstants(t *testing.T) {
	if EndpointSolve != "solve" {
		t.Errorf("EndpointSolve = %q, want %q", EndpointSolve, "solve")
	}
	if EndpointSearch != "search" {
		t.Errorf("EndpointSearch = %q, want %q", EndpointSearch, "search")
	}
	if EndpointEvaluate != "evaluate" {
		t.Errorf("EndpointEvaluate = %q, want %q", EndpointEvaluate, "evaluate")
	}
}

func TestErrorCodeConstants(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrorCodeValidation, "validation"},
		{ErrorCodeLLMError, "llm_error"},
		{ErrorCodeUnknownStrategy, "unknown_strategy"},
		{ErrorCodeInternal, "internal"},
	}

	for _, tt := range tests {
		if string(tt.code) != tt.want {
			t.Errorf("ErrorCode = %q, want %q", tt.code, tt.want)
		}
	}
}

// ============================================================================
// RecordRequest Tests
// ============================================================================

func TestSearchMetrics_RecordRequest_Success(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest(EndpointSearch, "bfs", true)

	val := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("search", "bfs", "success"))
	if val != 1 {
		t.Errorf("RequestsTotal[search,bfs,success] = %f, want 1", val)
	}
}

func TestSearchMetrics_RecordRequest_Error(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest(EndpointSolve, "tot", false)

	val := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("solve", "tot", "error"))
	if val != 1 {
		t.Errorf("RequestsTotal[solve,tot,error] = %f, want 1", val)
	}
}

func TestSearchMetrics_RecordRequest_Multiple(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest(EndpointSearch, "mcts", true)
	m.RecordRequest(EndpointSearch, "mcts", true)
	m.RecordRequest(EndpointSearch, "mcts", false)
	m.RecordRequest(EndpointSearch, "dfs", true)

	successVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("search", "mcts", "success"))
	if successVal != 2 {
		t.Errorf("RequestsTotal[search,mcts,success] = %f, want 2", successVal)
	}

	errorVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("search", "mcts", "error"))
	if errorVal != 1 {
		t.Errorf("RequestsTotal[search,mcts,error] = %f, want 1", errorVal)
	}

	dfsVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("search", "dfs", "success"))
	if dfsVal != 1 {
		t.Errorf("RequestsTotal[search,dfs,success] = %f, want 1", dfsVal)
	}
}

// ============================================================================
// RecordError Tests
// ============================================================================

func TestSearchMetrics_RecordError(t *testing.T) {
	m := newTestMetrics(t)

	tests := []struct {
		endpoint Endpoint
		code     ErrorCode
	}{
		{EndpointSolve, ErrorCodeValidation},
		{EndpointSearch, ErrorCodeUnknownStrategy},
		{EndpointSearch, ErrorCodeLLMError},
		{EndpointEvaluate, ErrorCodeInternal},
	}

	for _, tt := range tests {
		m.RecordError(tt.endpoint, tt.code)

		val := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues(string(tt.endpoint), string(tt.code)))
		if val != 1 {
			t.Errorf("ErrorsTotal[%s,%s] = %f, want 1", tt.endpoint, tt.code, val)
		}
	}
}

// ============================================================================
// RecordSearch Tests
// ============================================================================

func TestSearchMetrics_RecordSearch(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordSearch(EndpointSearch, "beam", 2.5, 4, 12, 12)

	genVal := testutil.ToFloat64(m.CandidatesGeneratedTotal.WithLabelValues("beam"))
	if genVal != 12 {
		t.Errorf("CandidatesGeneratedTotal[beam] = %f, want 12", genVal)
	}

	evalVal := testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("beam"))
	if evalVal != 12 {
		t.Errorf("EvaluationsTotal[beam] = %f, want 12", evalVal)
	}

	// Histograms: verify the metric was collected without panicking
	count := testutil.CollectAndCount(m.SearchDurationSeconds)
	if count == 0 {
		t.Error("Expected at least one duration metric to be collected")
	}
}

func TestSearchMetrics_RecordSearch_Accumulates(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordSearch(EndpointSearch, "astar", 1.0, 2, 6, 8)
	m.RecordSearch(EndpointSearch, "astar", 3.0, 5, 10, 14)

	genVal := testutil.ToFloat64(m.CandidatesGeneratedTotal.WithLabelValues("astar"))
	if genVal != 16 {
		t.Errorf("CandidatesGeneratedTotal[astar] = %f, want 16", genVal)
	}

	evalVal := testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("astar"))
	if evalVal != 22 {
		t.Errorf("EvaluationsTotal[astar] = %f, want 22", evalVal)
	}
}

// ============================================================================
// SearchStarted/SearchEnded Tests
// ============================================================================

func TestSearchMetrics_SearchLifecycle(t *testing.T) {
	m := newTestMetrics(t)

	m.SearchStarted(EndpointSearch)
	m.SearchStarted(EndpointSearch)
	m.SearchStarted(EndpointSolve)

	val := testutil.ToFloat64(m.ActiveSearches.WithLabelValues("search"))
	if val != 2 {
		t.Errorf("After 2 starts: ActiveSearches[search] = %f, want 2", val)
	}

	m.SearchEnded(EndpointSearch)
	m.SearchEnded(EndpointSearch)

	val = testutil.ToFloat64(m.ActiveSearches.WithLabelValues("search"))
	if val != 0 {
		t.Errorf("After all ends: ActiveSearches[search] = %f, want 0", val)
	}

	solveVal := testutil.ToFloat64(m.ActiveSearches.WithLabelValues("solve"))
	if solveVal != 1 {
		t.Errorf("ActiveSearches[solve] = %f, want 1", solveVal)
	}
}

// ============================================================================
// Concurrent Safety Tests
// ============================================================================

func TestSearchMetrics_ConcurrentSafety(t *testing.T) {
	m := newTestMetrics(t)

	done := make(chan bool, 60)

	for i := 0; i < 20; i++ {
		go func() {
			m.RecordRequest(EndpointSearch, "bfs", true)
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		go func() {
			m.RecordError(EndpointSearch, ErrorCodeLLMError)
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		go func() {
			m.SearchStarted(EndpointSearch)
			m.RecordSearch(EndpointSearch, "bfs", 0.5, 1, 3, 3)
			m.SearchEnded(EndpointSearch)
			done <- true
		}()
	}

	for i := 0; i < 60; i++ {
		<-done
	}

	requestsVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("search", "bfs", "success"))
	if requestsVal != 20 {
		t.Errorf("RequestsTotal[search,bfs,success] = %f, want 20", requestsVal)
	}

	errorsVal := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("search", "llm_error"))
	if errorsVal != 20 {
		t.Errorf("ErrorsTotal[search,llm_error] = %f, want 20", errorsVal)
	}

	genVal := testutil.ToFloat64(m.CandidatesGeneratedTotal.WithLabelValues("bfs"))
	if genVal != 60 {
		t.Errorf("CandidatesGeneratedTotal[bfs] = %f, want 60", genVal)
	}
}
