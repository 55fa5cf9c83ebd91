// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package solver implements Tree-of-Thought reasoning over an LLM
// backend.
//
// # Description
//
// The solver grows a tree of candidate passages: an LLM proposes
// continuations, a second prompt scores each candidate from 1 to 10,
// and a selection policy decides which candidates survive to the next
// round. Solve runs the classic fixed-round loop; SolveWithSearch
// delegates exploration to any strategy from pkg/search; NaiveSolve
// generates once with no tree at all.
//
// All LLM failures are logged and skipped rather than propagated: a
// candidate that fails to generate simply never enters the pool, and a
// score that fails to parse never enters the average. An empty pool is
// a dead end, not an error.
package solver

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/AleutianAI/AleutianSearch/services/llm"
)

// TreeOfThought drives generation and evaluation through a single LLM
// client. Safe for sequential use; the embedded rng is not locked.
type TreeOfThought struct {
	client llm.LLMClient
	params llm.GenerationParams

	// rng feeds probabilistic candidate selection in Solve.
	rng *rand.Rand
}

// NewTreeOfThought builds a solver around client using default
// generation parameters.
func NewTreeOfThought(client llm.LLMClient) *TreeOfThought {
	return &TreeOfThought{
		client: client,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithParams overrides the generation parameters sent on every call.
func (t *TreeOfThought) WithParams(params llm.GenerationParams) *TreeOfThought {
	t.params = params
	return t
}

// WithRand overrides the selection rng. Tests use this for
// deterministic probabilistic selection.
func (t *TreeOfThought) WithRand(rng *rand.Rand) *TreeOfThought {
	t.rng = rng
	return t
}

// GetValue scores a single passage, averaging nEvaluateSample
// evaluation calls. Samples whose reply has no leading integer in
// [1, 10] are discarded; if every sample is discarded the value is 0.
func (t *TreeOfThought) GetValue(ctx context.Context, passage string, nEvaluateSample int) float64 {
	prompt := EvaluationPrompt(passage)
	var scores []int
	for i := 0; i < nEvaluateSample; i++ {
		out, err := t.client.Generate(ctx, prompt, t.params)
		if err != nil {
			slog.Warn("evaluation call failed", "error", err)
			continue
		}
		if score, ok := extractScore(out); ok {
			scores = append(scores, score)
		}
	}
	if len(scores) == 0 {
		return 0.0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

// GetValues scores each passage independently via GetValue.
func (t *TreeOfThought) GetValues(ctx context.Context, passages []string, nEvaluateSample int) []float64 {
	values := make([]float64, len(passages))
	for i, p := range passages {
		values[i] = t.GetValue(ctx, p, nEvaluateSample)
	}
	return values
}

// GetVotes polls the model nEvaluateSample times for the best
// candidate and returns a vote count per candidate. Replies whose
// index falls outside the candidate list are discarded.
func (t *TreeOfThought) GetVotes(ctx context.Context, instruction string, candidates []string, nEvaluateSample int) []int {
	votes := make([]int, len(candidates))
	prompt := VotePrompt(instruction, candidates)
	for i := 0; i < nEvaluateSample; i++ {
		out, err := t.client.Generate(ctx, prompt, t.params)
		if err != nil {
			slog.Warn("voting call failed", "error", err)
			continue
		}
		if idx, ok := extractChoice(out, len(candidates)); ok {
			votes[idx]++
		}
	}
	return votes
}

// GenerateSamples asks the model for nGenerateSample passage
// candidates extending currentPassage. Failed calls are logged and
// skipped, so the result may be shorter than requested or empty.
func (t *TreeOfThought) GenerateSamples(ctx context.Context, endingSentences []string,
	currentPassage string, nGenerateSample int, useCoT bool) []string {

	prompt := GenerationPrompt(endingSentences, currentPassage, useCoT)
	var samples []string
	for i := 0; i < nGenerateSample; i++ {
		out, err := t.client.Generate(ctx, prompt, t.params)
		if err != nil {
			slog.Warn("generation call failed", "error", err)
			continue
		}
		if useCoT {
			out = extractPassage(out)
		}
		samples = append(samples, out)
	}
	return samples
}

// Evaluation is the detailed result of scoring one passage.
type Evaluation struct {
	Score            float64 `json:"score"`
	IndividualScores []int   `json:"individual_scores"`
	NEvaluations     int     `json:"n_evaluations"`
	PassageLength    int     `json:"passage_length"`
}

// EvaluatePassage scores a passage nSamples times and keeps the
// individual scores alongside the average.
func (t *TreeOfThought) EvaluatePassage(ctx context.Context, passage string, nSamples int) Evaluation {
	prompt := EvaluationPrompt(passage)
	scores := []int{}
	for i := 0; i < nSamples; i++ {
		out, err := t.client.Generate(ctx, prompt, t.params)
		if err != nil {
			slog.Warn("evaluation call failed", "error", err)
			continue
		}
		if score, ok := extractScore(out); ok {
			scores = append(scores, score)
		}
	}
	avg := 0.0
	if len(scores) > 0 {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		avg = float64(sum) / float64(len(scores))
	}
	return Evaluation{
		Score:            avg,
		IndividualScores: scores,
		NEvaluations:     len(scores),
		PassageLength:    len(splitWords(passage)),
	}
}

// Comparison is the outcome of pairwise passage comparison.
type Comparison struct {
	Winner           int     `json:"winner"` // 1, 2, or 0 for tie
	P1Wins           int     `json:"p1_wins"`
	P2Wins           int     `json:"p2_wins"`
	Ties             int     `json:"ties"`
	TotalComparisons int     `json:"total_comparisons"`
	Confidence       float64 `json:"confidence"`
}

// ComparePassages runs nSamples pairwise comparisons and tallies
// which passage won more often.
func (t *TreeOfThought) ComparePassages(ctx context.Context, passage1, passage2 string, nSamples int) Comparison {
	prompt := ComparisonPrompt(passage1, passage2)
	var outcomes []int
	for i := 0; i < nSamples; i++ {
		out, err := t.client.Generate(ctx, prompt, t.params)
		if err != nil {
			slog.Warn("comparison call failed", "error", err)
			continue
		}
		if outcome, ok := extractComparison(out); ok {
			outcomes = append(outcomes, outcome)
		}
	}

	var c Comparison
	for _, o := range outcomes {
		switch o {
		case comparisonFirst:
			c.P1Wins++
		case comparisonSecond:
			c.P2Wins++
		default:
			c.Ties++
		}
	}
	c.TotalComparisons = len(outcomes)
	switch {
	case c.P1Wins > c.P2Wins:
		c.Winner = 1
	case c.P2Wins > c.P1Wins:
		c.Winner = 2
	default:
		c.Winner = 0
	}
	if len(outcomes) > 0 {
		c.Confidence = float64(maxInt(c.P1Wins, maxInt(c.P2Wins, c.Ties))) / float64(len(outcomes))
	}
	return c
}

// RankedPassage pairs a passage with its evaluation and rank.
type RankedPassage struct {
	Passage       string     `json:"passage"`
	OriginalIndex int        `json:"original_index"`
	Rank          int        `json:"rank"`
	Evaluation    Evaluation `json:"evaluation"`
}

// RankPassages evaluates every passage and returns them sorted by
// score, best first. Ranks start at 1.
func (t *TreeOfThought) RankPassages(ctx context.Context, passages []string, nEvalSamples int) []RankedPassage {
	ranked := make([]RankedPassage, len(passages))
	for i, p := range passages {
		ranked[i] = RankedPassage{
			Passage:       p,
			OriginalIndex: i,
			Evaluation:    t.EvaluatePassage(ctx, p, nEvalSamples),
		}
	}
	sortRankedByScore(ranked)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
