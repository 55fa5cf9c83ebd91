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

// defaultBeamWidth is the beam size when Options.BeamWidth is unset.
const defaultBeamWidth = 3

// Beam keeps the top-k candidates at each step. Unlike BFS, the goal check
// runs against every evaluated candidate of the round, not just the
// survivors, and a successful round returns the single best-scoring goal
// state rather than the full goal set.
type Beam struct{}

// Name implements Strategy.
func (s *Beam) Name() string { return "Beam" }

// Search implements Strategy.
func (s *Beam) Search(initialState string, fns Funcs, maxSteps int, opts Options) *Result {
	beamWidth := opts.BeamWidth
	if beamWidth <= 0 {
		beamWidth = defaultBeamWidth
	}

	currentBeam := []string{initialState}
	result := &Result{Strategy: s.Name()}

	for step := 0; step < maxSteps; step++ {
		var allCandidates []string
		stepGenerateCalls := 0
		for _, state := range currentBeam {
			batch := fns.Generate(state, opts.nGenerate())
			allCandidates = append(allCandidates, batch...)
			stepGenerateCalls++
		}
		result.Metrics.GenerateCalls += stepGenerateCalls
		result.Metrics.TotalGenerated += len(allCandidates)

		if len(allCandidates) == 0 {
			break
		}

		values := fns.Evaluate(allCandidates)
		result.Metrics.countEvaluate(len(allCandidates))

		ranked := rankByValue(allCandidates, values)

		// Full-pool goal check; ranked order puts the best goal state first.
		var goalStates []string
		for _, cand := range ranked {
			if fns.IsGoal(cand.state) {
				goalStates = append(goalStates, cand.state)
			}
		}
		if len(goalStates) > 0 {
			result.FinalStates = goalStates[:1]
			result.StepsTaken = step + 1
			result.Success = true
			return result
		}

		currentBeam = topStates(ranked, beamWidth)

		bestValue := 0.0
		if len(ranked) > 0 {
			bestValue = ranked[0].value
		}
		result.SearchHistory = append(result.SearchHistory, HistoryEntry{
			"step":                     step,
			"beam_size":                len(currentBeam),
			"total_candidates":         len(allCandidates),
			"best_value":               bestValue,
			"beam_states":              currentBeam,
			"generated_this_step":      len(allCandidates),
			"evaluated_this_step":      len(allCandidates),
			"generate_calls_this_step": stepGenerateCalls,
			"evaluate_calls_this_step": 1,
		})
	}

	result.FinalStates = currentBeam
	result.StepsTaken = maxSteps
	result.Success = false
	return result
}
