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
	"sort"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSearch/pkg/results"
	"github.com/AleutianAI/AleutianSearch/pkg/ux"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare strategies over the recorded results",
	Long: `Loads every result record, aggregates per-strategy and per-tier
statistics, picks a per-query winner by execution time among successful
runs, and writes the full analysis as JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeAnalysisReport(results.NewStore(config.ResultsDir))
	},
}

func writeAnalysisReport(store *results.Store) error {
	records, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading results: %w", err)
	}
	if len(records) == 0 {
		ux.Warning("No results found in " + store.Dir())
		return nil
	}

	analysis := results.Analyze(records)
	if err := results.WriteAnalysis(analysis, config.AnalysisPath); err != nil {
		return fmt.Errorf("writing analysis: %w", err)
	}

	rows := make([]ux.StrategyRow, 0, len(analysis.ByStrategy))
	for name, stats := range analysis.ByStrategy {
		rows = append(rows, ux.StrategyRow{
			Strategy:    name,
			Runs:        stats.N,
			AvgTime:     stats.AvgTime,
			SuccessRate: stats.SuccessRate,
			AvgScore:    stats.AvgScore,
		})
	}
	fmt.Print(ux.RenderStrategyTable(rows))

	queryIDs := make([]string, 0, len(analysis.ByQuery))
	for id := range analysis.ByQuery {
		queryIDs = append(queryIDs, id)
	}
	sort.Strings(queryIDs)
	for _, id := range queryIDs {
		fmt.Println(ux.RenderWinner(id, analysis.ByQuery[id].Winner))
	}

	ux.Success("Analysis written to " + config.AnalysisPath)
	return nil
}
