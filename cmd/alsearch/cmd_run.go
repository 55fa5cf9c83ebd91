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
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSearch/pkg/dataset"
	"github.com/AleutianAI/AleutianSearch/pkg/results"
	"github.com/AleutianAI/AleutianSearch/pkg/search"
	"github.com/AleutianAI/AleutianSearch/pkg/ux"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/solver"
)

var (
	runProfile      string
	runStrategy     string
	runDryRun       bool
	runAnalysis     bool
	runCleanResults bool
	runNGenerate    int
	runNEvaluate    int

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the query x strategy benchmark matrix",
		Long: `Runs every configured query against every search strategy (or a
filtered subset), writes one JSON record per pair into the results
directory, and optionally finishes with a comparative analysis.`,
		RunE: runBenchmark,
	}
)

func runBenchmark(cmd *cobra.Command, _ []string) error {
	queries, err := dataset.LoadQueries(config.QueriesPath, runProfile)
	if err != nil {
		return fmt.Errorf("loading queries: %w", err)
	}
	if len(queries) == 0 {
		ux.Warning("No queries matched; nothing to run")
		return nil
	}

	strategies := search.StrategyNames()
	if runStrategy != "" {
		if !slices.Contains(strategies, runStrategy) {
			return fmt.Errorf("unknown strategy: %s (available: %s)",
				runStrategy, strings.Join(strategies, ", "))
		}
		strategies = []string{runStrategy}
	}

	store := results.NewStore(config.ResultsDir)
	if runCleanResults {
		if err := store.Clean(); err != nil {
			return fmt.Errorf("cleaning results: %w", err)
		}
		ux.Info("Results directory cleaned")
	}

	if runDryRun {
		ux.Title(fmt.Sprintf("Matrix: %d strategies x %d queries = %d runs",
			len(strategies), len(queries), len(strategies)*len(queries)))
		for _, strat := range strategies {
			for _, q := range queries {
				ux.Muted(fmt.Sprintf("  %s x %s (%s)", strat, q.ID, q.Tier))
			}
		}
		return nil
	}

	retrieve := loadRetriever()

	client, err := newBackendClient(config.Backend)
	if err != nil {
		return fmt.Errorf("creating %s client: %w", config.Backend, err)
	}
	tot := solver.NewTreeOfThought(client)

	ctx := cmd.Context()
	succeeded, failed := 0, 0
	for _, strat := range strategies {
		if banner := ux.Banner(strat); banner != "" {
			fmt.Println(banner)
		}
		for _, q := range queries {
			profile := dataset.ProfileFor(q.Tier)
			rec := results.NewRecord(q.ID, q.Tier, strat, q.Text)

			start := time.Now()
			res, err := tot.SolveQuery(ctx, q.Text, retrieve, solver.QueryOptions{
				Strategy:    strat,
				MaxSteps:    profile.MaxSteps,
				NSelect:     profile.NSelect,
				NGenerate:   runNGenerate,
				NEvaluate:   runNEvaluate,
				GoalKeyword: config.GoalKeyword,
			})
			rec.ExecutionTime = time.Since(start).Seconds()
			if err != nil {
				ux.RunStatus(strat+"/"+q.ID, ux.IconError, err.Error())
				failed++
				continue
			}

			rec.Success = res.Success
			rec.StepsTaken = res.StepsTaken
			rec.SearchHistory = res.SearchHistory
			rec.Metrics = &res.Metrics
			if len(res.FinalStates) > 0 {
				rec.FinalAnswer = res.FinalStates[0]
				eval := tot.EvaluatePassage(ctx, rec.FinalAnswer, runNEvaluate)
				rec.EvaluationScore = eval.Score
				rec.IndividualScores = eval.IndividualScores
				rec.NEvaluations = eval.NEvaluations
			}

			path, err := store.Write(rec)
			if err != nil {
				return fmt.Errorf("writing record for %s/%s: %w", strat, q.ID, err)
			}
			slog.Debug("record written", "path", path)

			icon := ux.IconSuccess
			if !rec.Success {
				icon = ux.IconWarning
			}
			ux.RunStatus(strat+"/"+q.ID, icon,
				fmt.Sprintf("score %.1f in %.1fs (%d steps)",
					rec.EvaluationScore, rec.ExecutionTime, rec.StepsTaken))
			succeeded++
		}
	}
	ux.Summary(succeeded, failed, succeeded+failed)

	if runAnalysis {
		return writeAnalysisReport(store)
	}
	return nil
}

// loadRetriever builds the word-overlap retriever from the knowledge
// directory. A missing or empty knowledge base downgrades to
// retrieval-free prompting rather than failing the run.
func loadRetriever() solver.RetrieveFunc {
	kb, err := dataset.LoadKnowledgeBase(config.KnowledgeDir)
	if err != nil || strings.TrimSpace(kb) == "" {
		slog.Warn("no knowledge base loaded, continuing without retrieval",
			"dir", config.KnowledgeDir, "error", err)
		return nil
	}
	return dataset.NewRetriever(kb).Retrieve
}
