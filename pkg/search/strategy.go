// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search implements interchangeable graph-search strategies over an
// abstract state space.
//
// A state is an opaque string (in practice a partial or complete generated
// passage). Strategies know nothing about text or LLMs; they operate purely
// through three injected capabilities: a generator of successor states, a
// batch evaluator, and a goal predicate. This keeps the algorithms reusable
// and lets callers compare them apples-to-apples via the shared Metrics
// counters every strategy maintains.
//
// # Usage
//
//	strategy, err := search.NewStrategy("beam")
//	if err != nil {
//	    return err
//	}
//	result := strategy.Search("", search.Funcs{
//	    Generate: gen,
//	    Evaluate: eval,
//	    IsGoal:   goal,
//	}, 5, search.Options{BeamWidth: 3})
//
// # Thread Safety
//
// A Strategy instance owns no state between Search calls, but a single call
// is strictly single-threaded: the frontier, queue, or tree it builds is
// exclusively owned for the duration of that call. Do not share one Search
// invocation across goroutines.
package search

import "strings"

// =============================================================================
// Capability Contracts
// =============================================================================

// GenerateFunc produces up to n successor states for the given state.
//
// Returning fewer than n states, or none at all, is a legitimate outcome and
// signals a dead end rather than an error. Failures of the underlying
// generation capability are the caller's responsibility; by the time a
// strategy sees this function it must not fail.
type GenerateFunc func(state string, n int) []string

// EvaluateFunc scores a batch of states, returning one value per input in
// the same order. Higher is better. Values are expected to share a
// consistent scale (canonically 1-10) across all calls within one search.
type EvaluateFunc func(states []string) []float64

// GoalFunc reports whether a state is an acceptable final answer.
type GoalFunc func(state string) bool

// Funcs bundles the three injected capabilities every strategy consumes.
type Funcs struct {
	Generate GenerateFunc
	Evaluate EvaluateFunc
	IsGoal   GoalFunc
}

// =============================================================================
// Options
// =============================================================================

// Options carries strategy-specific tuning knobs. Zero values select the
// documented defaults; strategies ignore fields they do not use.
type Options struct {
	// NGenerate is the number of candidates requested per generation call.
	// Default 3.
	NGenerate int

	// NSelect is the BFS frontier width. Default 2.
	NSelect int

	// BeamWidth is the beam size for beam search. Default 3.
	BeamWidth int

	// MaxDepth bounds DFS recursion depth. Default 10.
	MaxDepth int

	// SimulationsPerStep is the number of MCTS simulations per outer round.
	// Default 10.
	SimulationsPerStep int

	// Heuristic overrides the A* heuristic. When nil, A* falls back to the
	// injected evaluator, one state at a time. Each such call counts toward
	// the evaluation metrics.
	Heuristic func(state string) float64

	// Rand supplies randomness for MCTS rollouts. When nil a time-seeded
	// source is used. Inject a fixed-seed source in tests.
	Rand RolloutRand
}

// RolloutRand is the subset of math/rand used by MCTS rollouts.
type RolloutRand interface {
	Intn(n int) int
}

func (o Options) nGenerate() int {
	if o.NGenerate <= 0 {
		return 3
	}
	return o.NGenerate
}

// =============================================================================
// Results
// =============================================================================

// Metrics counts the work a strategy performed through the injected
// capabilities. Call counters count invocations; total counters count items.
// All four are monotonically non-decreasing during one search.
type Metrics struct {
	TotalGenerated int `json:"total_generated"`
	TotalEvaluated int `json:"total_evaluated"`
	GenerateCalls  int `json:"generate_calls"`
	EvaluateCalls  int `json:"evaluate_calls"`
}

func (m *Metrics) countGenerate(batch []string) {
	m.GenerateCalls++
	m.TotalGenerated += len(batch)
}

func (m *Metrics) countEvaluate(n int) {
	m.EvaluateCalls++
	m.TotalEvaluated += n
}

// HistoryEntry is one per-step diagnostic snapshot. Entries are append-only
// observability output; no algorithm ever reads them back. The keys differ
// per strategy, matching what each algorithm can cheaply report.
type HistoryEntry map[string]any

// Result is the outcome of one Search call.
type Result struct {
	// FinalStates holds the candidate answers, best first. Never empty.
	FinalStates []string `json:"final_states"`

	// SearchHistory holds the per-step diagnostic snapshots.
	SearchHistory []HistoryEntry `json:"search_history"`

	// Strategy is the name tag of the algorithm that produced this result.
	Strategy string `json:"strategy"`

	// StepsTaken counts completed steps; its unit is strategy-specific
	// (rounds for BFS/Beam/MCTS, pops for Best-First/A*, expansions for DFS).
	StepsTaken int `json:"steps_taken"`

	// Success reports whether the goal predicate was satisfied within budget.
	// A false value is a normal negative result, not an error.
	Success bool `json:"success"`

	// BestPath is the state sequence from root to the winning state, when
	// the strategy tracks paths.
	BestPath []string `json:"best_path,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// =============================================================================
// Strategy Interface
// =============================================================================

// Strategy is the common contract all search algorithms implement.
type Strategy interface {
	// Name returns the canonical tag used in result records.
	Name() string

	// Search explores the state space reachable from initialState until a
	// goal state is found or the maxSteps budget is exhausted. It never
	// returns nil and never fails: budget exhaustion is reported via
	// Result.Success == false.
	Search(initialState string, fns Funcs, maxSteps int, opts Options) *Result
}

// =============================================================================
// Goal Predicates
// =============================================================================

// TextCompletionGoal reports whether state contains every target sentence as
// a literal, case-sensitive substring.
func TextCompletionGoal(state string, targetSentences []string) bool {
	for _, sentence := range targetSentences {
		if !strings.Contains(state, strings.TrimSpace(sentence)) {
			return false
		}
	}
	return true
}

// CrosswordGoal reports whether state has grown to at least the length of
// the target pattern. Deliberately loose; grid-aware matching lives with the
// caller that owns the puzzle structure.
func CrosswordGoal(state, targetPattern string) bool {
	return len(strings.TrimSpace(state)) >= len(strings.TrimSpace(targetPattern))
}

// MathGoal reports whether the target answer appears in the state.
func MathGoal(state, targetAnswer string) bool {
	return strings.Contains(strings.TrimSpace(state), strings.TrimSpace(targetAnswer))
}
