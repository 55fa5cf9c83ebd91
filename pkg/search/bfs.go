// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import "sort"

// defaultNSelect is the BFS frontier width when Options.NSelect is unset.
const defaultNSelect = 2

// BreadthFirst explores all states at the current depth before going
// deeper. This is the classic Tree-of-Thought traversal: each round
// expands the whole frontier, evaluates the pooled candidates in one batch,
// and carries the top NSelect forward.
//
// The goal check runs against the selected survivors, not the full pool, so
// a winning candidate that fails selection is not detected this round.
type BreadthFirst struct{}

// Name implements Strategy.
func (s *BreadthFirst) Name() string { return "BFS" }

// Search implements Strategy.
func (s *BreadthFirst) Search(initialState string, fns Funcs, maxSteps int, opts Options) *Result {
	nSelect := opts.NSelect
	if nSelect <= 0 {
		nSelect = defaultNSelect
	}

	currentStates := []string{initialState}
	result := &Result{Strategy: s.Name()}

	for step := 0; step < maxSteps; step++ {
		var allCandidates []string
		stepGenerateCalls := 0
		for _, state := range currentStates {
			batch := fns.Generate(state, opts.nGenerate())
			allCandidates = append(allCandidates, batch...)
			stepGenerateCalls++
		}
		result.Metrics.GenerateCalls += stepGenerateCalls
		result.Metrics.TotalGenerated += len(allCandidates)

		// Frontier collapsed; nothing left to expand.
		if len(allCandidates) == 0 {
			break
		}

		values := fns.Evaluate(allCandidates)
		result.Metrics.countEvaluate(len(allCandidates))

		ranked := rankByValue(allCandidates, values)
		selected := topStates(ranked, nSelect)

		var goalStates []string
		for _, state := range selected {
			if fns.IsGoal(state) {
				goalStates = append(goalStates, state)
			}
		}
		if len(goalStates) > 0 {
			result.FinalStates = goalStates
			result.StepsTaken = step + 1
			result.Success = true
			return result
		}

		result.SearchHistory = append(result.SearchHistory, HistoryEntry{
			"step":                     step,
			"candidates":               allCandidates,
			"values":                   values,
			"selected":                 selected,
			"generated_this_step":      len(allCandidates),
			"evaluated_this_step":      len(allCandidates),
			"generate_calls_this_step": stepGenerateCalls,
			"evaluate_calls_this_step": 1,
		})

		currentStates = selected
	}

	result.FinalStates = currentStates
	result.StepsTaken = maxSteps
	result.Success = false
	return result
}

// scoredState pairs a candidate with its evaluation value for ranking.
type scoredState struct {
	state string
	value float64
}

// rankByValue sorts candidates by value descending. The sort is stable so
// that equal-valued candidates keep their generation order, which makes tie
// handling deterministic across runs with identical inputs.
func rankByValue(candidates []string, values []float64) []scoredState {
	ranked := make([]scoredState, len(candidates))
	for i, c := range candidates {
		v := 0.0
		if i < len(values) {
			v = values[i]
		}
		ranked[i] = scoredState{state: c, value: v}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].value > ranked[j].value
	})
	return ranked
}

func topStates(ranked []scoredState, n int) []string {
	if n > len(ranked) {
		n = len(ranked)
	}
	states := make([]string, n)
	for i := 0; i < n; i++ {
		states[i] = ranked[i].state
	}
	return states
}
