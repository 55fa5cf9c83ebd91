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

// stubSpace is a deterministic state space for strategy tests. Successors
// and scores come from fixed tables, and every capability invocation is
// recorded so tests can assert on expansion order and call accounting.
type stubSpace struct {
	// successors maps a state to the candidates Generate returns for it.
	successors map[string][]string

	// scores maps a state to its evaluation value. Unknown states score 0.
	scores map[string]float64

	// goals is the set of states the goal predicate accepts.
	goals map[string]bool

	// generateLog records the states Generate was called with, in order.
	generateLog []string

	// evaluateBatches records the size of each Evaluate call.
	evaluateBatches []int
}

func (s *stubSpace) funcs() Funcs {
	return Funcs{
		Generate: func(state string, n int) []string {
			s.generateLog = append(s.generateLog, state)
			batch := s.successors[state]
			if len(batch) > n {
				batch = batch[:n]
			}
			return batch
		},
		Evaluate: func(states []string) []float64 {
			s.evaluateBatches = append(s.evaluateBatches, len(states))
			values := make([]float64, len(states))
			for i, state := range states {
				values[i] = s.scores[state]
			}
			return values
		},
		IsGoal: func(state string) bool {
			return s.goals[state]
		},
	}
}

// generateCount returns how many times Generate was invoked for state.
func (s *stubSpace) generateCount(state string) int {
	count := 0
	for _, logged := range s.generateLog {
		if logged == state {
			count++
		}
	}
	return count
}

// fixedRand cycles through predetermined picks, for deterministic rollouts.
type fixedRand struct {
	picks []int
	pos   int
}

func (r *fixedRand) Intn(n int) int {
	if len(r.picks) == 0 {
		return 0
	}
	pick := r.picks[r.pos%len(r.picks)] % n
	r.pos++
	return pick
}
