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
	"log/slog"
	"strings"

	"github.com/AleutianAI/AleutianSearch/pkg/search"
)

// RetrieveFunc returns the topK reference chunks most relevant to a
// query. The benchmark runner plugs in pkg/dataset.Retriever here.
type RetrieveFunc func(query string, topK int) []string

// QueryOptions configures SolveQuery.
type QueryOptions struct {
	Strategy string

	MaxSteps  int // default 5
	NSelect   int // default 2
	NGenerate int // default 3
	NEvaluate int // default 3
	TopK      int // retrieval depth, default 3

	// GoalKeyword must appear in a state for it to count as a goal.
	// Empty means any state past MinGoalWords qualifies.
	GoalKeyword string

	// MinGoalWords is the word-count floor for a goal state. Default 80.
	MinGoalWords int
}

func (o *QueryOptions) applyDefaults() {
	if o.MaxSteps <= 0 {
		o.MaxSteps = 5
	}
	if o.NSelect <= 0 {
		o.NSelect = 2
	}
	if o.NGenerate <= 0 {
		o.NGenerate = 3
	}
	if o.NEvaluate <= 0 {
		o.NEvaluate = 3
	}
	if o.TopK <= 0 {
		o.TopK = 3
	}
	if o.MinGoalWords <= 0 {
		o.MinGoalWords = 80
	}
}

// SolveQuery answers a free-form question with a pluggable search
// strategy, grounding each continuation in chunks pulled from retrieve.
// Each expansion retrieves against the question plus the current
// partial answer, so later steps see context for what has already been
// written. Failed generation calls are logged and skipped.
func (t *TreeOfThought) SolveQuery(ctx context.Context, query string, retrieve RetrieveFunc, opts QueryOptions) (*search.Result, error) {
	opts.applyDefaults()

	strategy, err := search.NewStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	slog.Info("starting query search",
		"strategy", strategy.Name(), "max_steps", opts.MaxSteps, "n_select", opts.NSelect)

	fns := search.Funcs{
		Generate: func(state string, n int) []string {
			var retrievedText string
			if retrieve != nil {
				chunks := retrieve(strings.TrimSpace(query+" "+state), opts.TopK)
				retrievedText = strings.Join(chunks, "\n")
			}
			prompt := ContinuationPrompt(query, retrievedText, state)
			var outs []string
			for i := 0; i < n; i++ {
				out, err := t.client.Generate(ctx, prompt, t.params)
				if err != nil {
					slog.Warn("continuation call failed", "error", err)
					continue
				}
				outs = append(outs, strings.TrimSpace(state+" "+strings.TrimSpace(out)))
			}
			return outs
		},
		Evaluate: func(states []string) []float64 {
			return t.GetValues(ctx, states, opts.NEvaluate)
		},
		IsGoal: queryGoalFunc(opts.GoalKeyword, opts.MinGoalWords),
	}

	result := strategy.Search("", fns, opts.MaxSteps, search.Options{
		NGenerate: opts.NGenerate,
		NSelect:   opts.NSelect,
	})

	slog.Info("query search completed",
		"strategy", result.Strategy,
		"steps_taken", result.StepsTaken,
		"success", result.Success)
	return result, nil
}

// queryGoalFunc accepts a state once it is long enough and, when a
// keyword is set, mentions it.
func queryGoalFunc(keyword string, minWords int) search.GoalFunc {
	return func(state string) bool {
		if keyword != "" && !strings.Contains(state, keyword) {
			return false
		}
		return len(strings.Fields(state)) > minWords
	}
}
