// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianSearch/pkg/search"
)

// Generation, evaluation, and selection method names accepted by
// SolveOptions.
const (
	MethodGenerateSample = "sample"
	MethodEvaluateValue  = "value"
	MethodEvaluateVote   = "vote"
	MethodSelectGreedy   = "greedy"
	MethodSelectSample   = "sample"
)

// SolveOptions configures the fixed-round Solve loop. Zero values fall
// back to the documented defaults.
type SolveOptions struct {
	Steps           int    // reasoning rounds, default 2
	MethodGenerate  string // default "sample"
	MethodEvaluate  string // "value" (default) or "vote"
	MethodSelect    string // "greedy" (default) or "sample"
	NGenerateSample int    // candidates per state per round, default 3
	NEvaluateSample int    // evaluation samples per candidate, default 3
	NSelectSample   int    // survivors per round, default 2
	UseCoT          bool
}

func (o *SolveOptions) applyDefaults() {
	if o.Steps <= 0 {
		o.Steps = 2
	}
	if o.MethodGenerate == "" {
		o.MethodGenerate = MethodGenerateSample
	}
	if o.MethodEvaluate == "" {
		o.MethodEvaluate = MethodEvaluateValue
	}
	if o.MethodSelect == "" {
		o.MethodSelect = MethodSelectGreedy
	}
	if o.NGenerateSample <= 0 {
		o.NGenerateSample = 3
	}
	if o.NEvaluateSample <= 0 {
		o.NEvaluateSample = 3
	}
	if o.NSelectSample <= 0 {
		o.NSelectSample = 2
	}
}

// StepInfo records one round of the Solve loop for inspection.
type StepInfo struct {
	Step      int       `json:"step"`
	States    []string  `json:"ys"`
	NewStates []string  `json:"new_ys"`
	Values    []float64 `json:"values"`
	Selected  []string  `json:"select_new_ys"`
}

// SolveResult is the outcome of Solve or NaiveSolve.
type SolveResult struct {
	Passages    []string   `json:"passages"`
	Steps       []StepInfo `json:"steps"`
	Instruction string     `json:"instruction"`
}

// Solve runs the classic fixed-round Tree-of-Thought loop: every
// surviving state spawns candidates, every candidate is scored, and
// the selection policy keeps the best NSelectSample for the next
// round. Rounds where no candidate generates keep the previous states.
func (t *TreeOfThought) Solve(ctx context.Context, endingSentences []string, opts SolveOptions) (*SolveResult, error) {
	opts.applyDefaults()
	instruction := Instruction(endingSentences)

	states := []string{""}
	var infos []StepInfo

	for step := 0; step < opts.Steps; step++ {
		// Generation
		if opts.MethodGenerate != MethodGenerateSample {
			return nil, fmt.Errorf("unsupported generation method: %s", opts.MethodGenerate)
		}
		var newStates []string
		for _, s := range states {
			samples := t.GenerateSamples(ctx, endingSentences, s, opts.NGenerateSample, opts.UseCoT)
			newStates = append(newStates, samples...)
		}
		if len(newStates) == 0 {
			slog.Info("no new candidates generated, keeping current ones", "step", step)
			newStates = states
		}

		// Evaluation
		var values []float64
		switch opts.MethodEvaluate {
		case MethodEvaluateVote:
			votes := t.GetVotes(ctx, instruction, newStates, opts.NEvaluateSample)
			values = make([]float64, len(votes))
			for i, v := range votes {
				values[i] = float64(v)
			}
		case MethodEvaluateValue:
			values = t.GetValues(ctx, newStates, opts.NEvaluateSample)
		default:
			return nil, fmt.Errorf("unsupported evaluation method: %s", opts.MethodEvaluate)
		}

		// Selection
		var selected []string
		switch opts.MethodSelect {
		case MethodSelectSample:
			selected = t.sampleSelect(newStates, values, opts.NSelectSample)
		case MethodSelectGreedy:
			selected = greedySelect(newStates, values, opts.NSelectSample)
		default:
			return nil, fmt.Errorf("unsupported selection method: %s", opts.MethodSelect)
		}

		slog.Debug("solve round complete",
			"step", step, "generated", len(newStates), "selected", len(selected))

		infos = append(infos, StepInfo{
			Step:      step,
			States:    states,
			NewStates: newStates,
			Values:    values,
			Selected:  selected,
		})

		states = selected
		if len(states) == 0 {
			break
		}
	}

	if len(states) == 0 {
		states = []string{""}
	}
	return &SolveResult{
		Passages:    states,
		Steps:       infos,
		Instruction: instruction,
	}, nil
}

// SearchOptions configures SolveWithSearch.
type SearchOptions struct {
	Strategy        string // bfs, dfs, mcts, astar, beam, best_first
	MaxSteps        int    // default 5
	NGenerateSample int    // default 3
	NEvaluateSample int    // default 3
	UseCoT          bool
	GoalCheck       string // "text", "crossword", "math", or "" for the length default

	// Per-strategy knobs, forwarded untouched.
	NSelect            int
	BeamWidth          int
	MaxDepth           int
	SimulationsPerStep int
}

// SolveWithSearch explores the passage space with one of the pluggable
// search strategies instead of the fixed-round loop.
func (t *TreeOfThought) SolveWithSearch(ctx context.Context, endingSentences []string, opts SearchOptions) (*search.Result, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 5
	}
	if opts.NGenerateSample <= 0 {
		opts.NGenerateSample = 3
	}
	if opts.NEvaluateSample <= 0 {
		opts.NEvaluateSample = 3
	}

	strategy, err := search.NewStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	slog.Info("starting tree-of-thought search",
		"strategy", strategy.Name(), "max_steps", opts.MaxSteps, "endings", len(endingSentences))

	fns := search.Funcs{
		Generate: func(state string, n int) []string {
			return t.GenerateSamples(ctx, endingSentences, state, n, opts.UseCoT)
		},
		Evaluate: func(states []string) []float64 {
			return t.GetValues(ctx, states, opts.NEvaluateSample)
		},
		IsGoal: goalFunc(opts.GoalCheck, endingSentences),
	}

	result := strategy.Search("", fns, opts.MaxSteps, search.Options{
		NGenerate:          opts.NGenerateSample,
		NSelect:            opts.NSelect,
		BeamWidth:          opts.BeamWidth,
		MaxDepth:           opts.MaxDepth,
		SimulationsPerStep: opts.SimulationsPerStep,
	})

	slog.Info("search completed",
		"strategy", result.Strategy,
		"steps_taken", result.StepsTaken,
		"success", result.Success,
		"final_states", len(result.FinalStates))
	return result, nil
}

// NaiveSolve generates candidates in one shot with no tree search.
func (t *TreeOfThought) NaiveSolve(ctx context.Context, endingSentences []string, nGenerateSample int, useCoT bool) *SolveResult {
	if nGenerateSample <= 0 {
		nGenerateSample = 5
	}
	samples := t.GenerateSamples(ctx, endingSentences, "", nGenerateSample, useCoT)
	return &SolveResult{
		Passages:    samples,
		Steps:       []StepInfo{},
		Instruction: Instruction(endingSentences),
	}
}

// greedySelect keeps the n highest-valued states, preserving input
// order among equals.
func greedySelect(states []string, values []float64, n int) []string {
	ids := make([]int, len(states))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return values[ids[a]] > values[ids[b]]
	})
	if n > len(ids) {
		n = len(ids)
	}
	selected := make([]string, 0, n)
	for _, id := range ids[:n] {
		selected = append(selected, states[id])
	}
	return selected
}

// sampleSelect draws n states with probability proportional to value.
// Zero total mass degrades to taking the first n states. Draws are
// with replacement, so the same state can be selected twice.
func (t *TreeOfThought) sampleSelect(states []string, values []float64, n int) []string {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if n > len(states) {
		n = len(states)
	}
	if total <= 0 {
		return append([]string(nil), states[:n]...)
	}
	selected := make([]string, 0, n)
	for i := 0; i < n; i++ {
		r := t.rng.Float64() * total
		acc := 0.0
		picked := len(states) - 1
		for j, v := range values {
			acc += v
			if r < acc {
				picked = j
				break
			}
		}
		selected = append(selected, states[picked])
	}
	return selected
}

func splitWords(s string) []string {
	return strings.Fields(s)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func sortRankedByScore(ranked []RankedPassage) {
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Evaluation.Score > ranked[b].Evaluation.Score
	})
}
