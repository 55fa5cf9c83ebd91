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
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSearch/pkg/ux"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/solver"
)

var modelsCmd = &cobra.Command{
	Use:   "models [backend...]",
	Short: "Smoke-test the configured LLM backends",
	Long: `Runs a one-step solve against each named backend (or the configured
default) to verify the credentials and connectivity of each provider.`,
	Args: cobra.ArbitraryArgs,
	RunE: runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	backends := args
	if len(backends) == 0 {
		backends = []string{config.Backend}
	}

	succeeded, failed := 0, 0
	for _, backend := range backends {
		if err := smokeTestBackend(cmd.Context(), backend); err != nil {
			ux.RunStatus(backend, ux.IconError, err.Error())
			failed++
			continue
		}
		ux.RunStatus(backend, ux.IconSuccess, "generated a passage")
		succeeded++
	}
	ux.Summary(succeeded, failed, succeeded+failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d backends failed the smoke test", failed, len(backends))
	}
	return nil
}

// smokeTestBackend asks the backend for a single short solve. The
// budget is deliberately tiny; this checks reachability, not quality.
func smokeTestBackend(ctx context.Context, backend string) error {
	client, err := newBackendClient(backend)
	if err != nil {
		return err
	}
	tot := solver.NewTreeOfThought(client)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	result, err := tot.Solve(ctx, fallbackEndings, solver.SolveOptions{
		Steps:           1,
		NGenerateSample: 2,
		NEvaluateSample: 1,
	})
	if err != nil {
		return err
	}
	if len(result.Passages) == 0 || result.Passages[0] == "" {
		return fmt.Errorf("no passages generated")
	}
	return nil
}
