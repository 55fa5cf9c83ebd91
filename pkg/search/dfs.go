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

// defaultMaxDepth bounds DFS recursion when Options.MaxDepth is unset.
const defaultMaxDepth = 10

// DepthFirst explores as far as possible along each branch before
// backtracking. Children are visited in descending evaluation-score order,
// so this is a depth-first traversal with greedy child ordering rather than
// naive left-to-right descent. The first goal state found anywhere
// terminates the whole search.
//
// The global step budget is tracked as the length of the shared history
// log: one expansion appends one entry, and recursion backs out once the
// log has reached maxSteps.
type DepthFirst struct{}

// Name implements Strategy.
func (s *DepthFirst) Name() string { return "DFS" }

// Search implements Strategy.
func (s *DepthFirst) Search(initialState string, fns Funcs, maxSteps int, opts Options) *Result {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	result := &Result{Strategy: s.Name()}
	var bestStates []string

	var recurse func(state string, depth int, path []string) bool
	recurse = func(state string, depth int, path []string) bool {
		if depth >= maxDepth || len(result.SearchHistory) >= maxSteps {
			return false
		}

		if fns.IsGoal(state) {
			bestStates = append(bestStates, state)
			return true
		}

		candidates := fns.Generate(state, opts.nGenerate())
		result.Metrics.countGenerate(candidates)
		if len(candidates) == 0 {
			return false
		}

		values := fns.Evaluate(candidates)
		result.Metrics.countEvaluate(len(candidates))

		ranked := rankByValue(candidates, values)

		result.SearchHistory = append(result.SearchHistory, HistoryEntry{
			"step":                     len(result.SearchHistory),
			"depth":                    depth,
			"state":                    state,
			"candidates":               candidates,
			"values":                   values,
			"path":                     append([]string{}, path...),
			"generated_this_step":      len(candidates),
			"evaluated_this_step":      len(candidates),
			"generate_calls_this_step": 1,
			"evaluate_calls_this_step": 1,
		})

		for _, cand := range ranked {
			childPath := append(append([]string{}, path...), cand.state)
			if recurse(cand.state, depth+1, childPath) {
				return true
			}
		}

		return false
	}

	foundGoal := recurse(initialState, 0, []string{initialState})

	if len(bestStates) > 0 {
		result.FinalStates = bestStates
	} else {
		result.FinalStates = []string{initialState}
	}
	result.StepsTaken = len(result.SearchHistory)
	result.Success = foundGoal
	return result
}
