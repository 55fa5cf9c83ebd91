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

var (
	resultsCmd = &cobra.Command{
		Use:   "results",
		Short: "Manage recorded benchmark results",
	}

	resultsSummaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Count result files per strategy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := results.NewStore(config.ResultsDir)
			counts, err := store.Summarize()
			if err != nil {
				return fmt.Errorf("summarizing results: %w", err)
			}
			if len(counts) == 0 {
				ux.Warning("No results found in " + store.Dir())
				return nil
			}
			total := 0
			names := make([]string, 0, len(counts))
			for name, n := range counts {
				names = append(names, name)
				total += n
			}
			sort.Strings(names)
			ux.Title(fmt.Sprintf("Results Summary (%d total files)", total))
			for _, name := range names {
				fmt.Printf("%-15s: %3d files\n", name, counts[name])
			}
			return nil
		},
	}

	resultsArchiveCmd = &cobra.Command{
		Use:   "archive",
		Short: "Copy current results into a timestamped archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := results.NewStore(config.ResultsDir)
			path, err := store.Archive(config.ArchiveDir)
			if err != nil {
				return fmt.Errorf("archiving results: %w", err)
			}
			ux.Success("Results archived to: " + path)
			return nil
		},
	}

	resultsCleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Delete the results directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				ux.Warning("This deletes every result record. Re-run with --force to confirm.")
				return nil
			}
			store := results.NewStore(config.ResultsDir)
			if err := store.Clean(); err != nil {
				return fmt.Errorf("cleaning results: %w", err)
			}
			ux.Success("Results directory cleaned")
			return nil
		},
	}
)
