// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianSearch/pkg/search"
	"github.com/AleutianAI/AleutianSearch/services/llm"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/solver"
)

// HandleSearch explores the passage space with the requested search
// strategy and returns the raw search result, including per-step
// history and generate/evaluate counters.
func HandleSearch(llmClient llm.LLMClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordError(observability.EndpointSearch, observability.ErrorCodeValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if observability.DefaultMetrics != nil {
			observability.DefaultMetrics.SearchStarted(observability.EndpointSearch)
			defer observability.DefaultMetrics.SearchEnded(observability.EndpointSearch)
		}

		tot := solver.NewTreeOfThought(llmClient)
		start := time.Now()
		result, err := tot.SolveWithSearch(c.Request.Context(), req.EndingSentences, solver.SearchOptions{
			Strategy:           req.Strategy,
			MaxSteps:           req.MaxSteps,
			NGenerateSample:    req.NGenerateSample,
			NEvaluateSample:    req.NEvaluateSample,
			UseCoT:             req.UseCoT,
			GoalCheck:          req.GoalCheck,
			NSelect:            req.NSelect,
			BeamWidth:          req.BeamWidth,
			MaxDepth:           req.MaxDepth,
			SimulationsPerStep: req.SimulationsPerStep,
		})
		if err != nil {
			slog.Error("search failed", "strategy", req.Strategy, "error", err)
			recordRequest(observability.EndpointSearch, req.Strategy, false)
			if strings.Contains(err.Error(), "unknown strategy") {
				recordError(observability.EndpointSearch, observability.ErrorCodeUnknownStrategy)
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			} else {
				recordError(observability.EndpointSearch, observability.ErrorCodeInternal)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		duration := time.Since(start)
		recordRequest(observability.EndpointSearch, result.Strategy, result.Success)
		if observability.DefaultMetrics != nil {
			observability.DefaultMetrics.RecordSearch(
				observability.EndpointSearch,
				result.Strategy,
				duration.Seconds(),
				result.StepsTaken,
				result.Metrics.TotalGenerated,
				result.Metrics.TotalEvaluated,
			)
		}

		c.JSON(http.StatusOK, datatypes.SearchResponse{Result: result})
	}
}

// strategyDescriptions maps strategy names to short summaries for the
// listing endpoint.
var strategyDescriptions = map[string]string{
	"bfs":        "Breadth-first: explores all options at each level, keeps the top candidates",
	"dfs":        "Depth-first: explores deeply before backtracking, stops at the first goal",
	"beam":       "Beam search: keeps a fixed-width beam of the best candidates",
	"best_first": "Best-first: always expands the highest-scored frontier state",
	"astar":      "A*: orders expansion by path cost plus heuristic estimate",
	"mcts":       "Monte Carlo tree search: balances exploration and exploitation with rollouts",
}

// ListStrategies returns the available search strategies.
func ListStrategies(c *gin.Context) {
	names := search.StrategyNames()
	infos := make([]datatypes.StrategyInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, datatypes.StrategyInfo{
			Name:        name,
			Description: strategyDescriptions[name],
		})
	}
	c.JSON(http.StatusOK, gin.H{"strategies": infos})
}
