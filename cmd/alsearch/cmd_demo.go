// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSearch/pkg/dataset"
	"github.com/AleutianAI/AleutianSearch/pkg/search"
	"github.com/AleutianAI/AleutianSearch/pkg/ux"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/solver"
)

var (
	demoStrategy  string
	demoSteps     int
	demoNGenerate int
	demoNEvaluate int
	demoUseCoT    bool

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Solve one passage task and show the search trace",
		Long: `Picks the first test example (or a built-in one when no dataset is
available), runs the solver once, and renders the winning passage and
the per-step trace.`,
		RunE: runDemo,
	}
)

// fallbackEndings keeps the demo usable without a dataset on disk.
var fallbackEndings = []string{
	"It caught him off guard that space smelled of seared steak.",
	"People keep telling me orange but I still prefer pink.",
	"Each person who knows you has a different perception of who you are.",
}

func runDemo(cmd *cobra.Command, _ []string) error {
	endings := demoEndings()

	client, err := newBackendClient(config.Backend)
	if err != nil {
		return fmt.Errorf("creating %s client: %w", config.Backend, err)
	}
	tot := solver.NewTreeOfThought(client)
	ctx := cmd.Context()

	label := demoStrategy
	if label == "" {
		label = "tree-of-thought"
	}
	if banner := ux.Banner(label); banner != "" {
		fmt.Println(banner)
	}
	ux.Info("Target endings:")
	for _, e := range endings {
		ux.Muted("  " + e)
	}

	if demoStrategy != "" {
		return demoWithStrategy(cmd, tot, endings)
	}

	var result *solver.SolveResult
	err = ux.WithSpinner("Exploring the passage tree", func() error {
		var solveErr error
		result, solveErr = tot.Solve(ctx, endings, solver.SolveOptions{
			Steps:           demoSteps,
			NGenerateSample: demoNGenerate,
			NEvaluateSample: demoNEvaluate,
			UseCoT:          demoUseCoT,
		})
		return solveErr
	})
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}

	steps := make([]ux.StepSummary, 0, len(result.Steps))
	for _, info := range result.Steps {
		best := 0.0
		for _, v := range info.Values {
			if v > best {
				best = v
			}
		}
		steps = append(steps, ux.StepSummary{
			Step:       info.Step,
			Candidates: len(info.NewStates),
			Kept:       len(info.Selected),
			BestScore:  best,
		})
	}
	fmt.Print(ux.RenderSteps(steps))

	if len(result.Passages) == 0 {
		ux.Warning("No passages survived the search")
		return nil
	}
	eval := tot.EvaluatePassage(ctx, result.Passages[0], demoNEvaluate)
	fmt.Print(ux.RenderPassage(result.Passages[0], eval.Score))
	return nil
}

func demoWithStrategy(cmd *cobra.Command, tot *solver.TreeOfThought, endings []string) error {
	var result *search.Result
	err := ux.WithSpinner("Searching with "+demoStrategy, func() error {
		var solveErr error
		result, solveErr = tot.SolveWithSearch(cmd.Context(), endings, solver.SearchOptions{
			Strategy:        demoStrategy,
			MaxSteps:        demoSteps,
			NGenerateSample: demoNGenerate,
			NEvaluateSample: demoNEvaluate,
			UseCoT:          demoUseCoT,
		})
		return solveErr
	})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(result.FinalStates) == 0 {
		ux.Warning("No passages survived the search")
		return nil
	}
	eval := tot.EvaluatePassage(cmd.Context(), result.FinalStates[0], demoNEvaluate)
	fmt.Print(ux.RenderPassage(result.FinalStates[0], eval.Score))
	icon := ux.IconSuccess
	if !result.Success {
		icon = ux.IconWarning
	}
	ux.RunStatus(result.Strategy, icon,
		fmt.Sprintf("%d steps, goal reached: %t", result.StepsTaken, result.Success))
	return nil
}

// demoEndings pulls the first held-out example's target sentences,
// falling back to the built-in set when the dataset file is missing.
func demoEndings() []string {
	ds, err := dataset.LoadPassages(config.PassagesPath)
	if err != nil || ds.Len() == 0 {
		slog.Warn("passage dataset unavailable, using built-in example",
			"path", config.PassagesPath, "error", err)
		return fallbackEndings
	}
	test := ds.TestSplit(0)
	if len(test) == 0 {
		return fallbackEndings
	}
	return test[0].EndingSentences
}
