// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the
// search orchestrator API.
package datatypes

import (
	"github.com/AleutianAI/AleutianSearch/pkg/search"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/solver"
)

// SolveRequest drives the fixed-round Tree-of-Thought loop.
//
// EndingSentences are the sentences each paragraph of the generated
// passage must end with. All knobs are optional; zero values use the
// solver defaults.
type SolveRequest struct {
	EndingSentences []string `json:"ending_sentences" binding:"required,min=1,dive,min=1"`
	Steps           int      `json:"steps" binding:"omitempty,min=1,max=20"`
	MethodEvaluate  string   `json:"method_evaluate" binding:"omitempty,oneof=value vote"`
	MethodSelect    string   `json:"method_select" binding:"omitempty,oneof=greedy sample"`
	NGenerateSample int      `json:"n_generate_sample" binding:"omitempty,min=1,max=20"`
	NEvaluateSample int      `json:"n_evaluate_sample" binding:"omitempty,min=1,max=20"`
	NSelectSample   int      `json:"n_select_sample" binding:"omitempty,min=1,max=20"`
	UseCoT          bool     `json:"use_cot"`
	Naive           bool     `json:"naive"` // skip the tree, generate once
}

// SolveResponse wraps the solver outcome.
type SolveResponse struct {
	Passages    []string          `json:"passages"`
	Steps       []solver.StepInfo `json:"steps"`
	Instruction string            `json:"instruction"`
}

// SearchRequest drives SolveWithSearch with a pluggable strategy.
type SearchRequest struct {
	Strategy        string   `json:"strategy" binding:"required"`
	EndingSentences []string `json:"ending_sentences" binding:"required,min=1,dive,min=1"`
	MaxSteps        int      `json:"max_steps" binding:"omitempty,min=1,max=50"`
	NGenerateSample int      `json:"n_generate_sample" binding:"omitempty,min=1,max=20"`
	NEvaluateSample int      `json:"n_evaluate_sample" binding:"omitempty,min=1,max=20"`
	UseCoT          bool     `json:"use_cot"`
	GoalCheck       string   `json:"goal_check" binding:"omitempty,oneof=text crossword math"`

	// Strategy-specific knobs. Ignored by strategies that do not use
	// them.
	NSelect            int `json:"n_select" binding:"omitempty,min=1,max=20"`
	BeamWidth          int `json:"beam_width" binding:"omitempty,min=1,max=20"`
	MaxDepth           int `json:"max_depth" binding:"omitempty,min=1,max=50"`
	SimulationsPerStep int `json:"simulations_per_step" binding:"omitempty,min=1,max=100"`
}

// SearchResponse carries the raw search result.
type SearchResponse struct {
	Result *search.Result `json:"result"`
}

// EvaluateRequest scores a single passage.
type EvaluateRequest struct {
	Passage  string `json:"passage" binding:"required"`
	NSamples int    `json:"n_samples" binding:"omitempty,min=1,max=20"`
}

// CompareRequest compares two passages for coherency.
type CompareRequest struct {
	Passage1 string `json:"passage1" binding:"required"`
	Passage2 string `json:"passage2" binding:"required"`
	NSamples int    `json:"n_samples" binding:"omitempty,min=1,max=20"`
}

// StrategyInfo describes one available search strategy.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
