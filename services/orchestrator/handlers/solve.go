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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianSearch/services/llm"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/solver"
)

// HandleSolve runs the fixed-round Tree-of-Thought loop over the given
// ending sentences. With "naive": true the tree is skipped and the
// model generates candidates in one shot.
func HandleSolve(llmClient llm.LLMClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordError(observability.EndpointSolve, observability.ErrorCodeValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		tot := solver.NewTreeOfThought(llmClient)
		start := time.Now()

		if req.Naive {
			result := tot.NaiveSolve(c.Request.Context(), req.EndingSentences, req.NGenerateSample, req.UseCoT)
			recordRequest(observability.EndpointSolve, "naive", true)
			c.JSON(http.StatusOK, datatypes.SolveResponse{
				Passages:    result.Passages,
				Steps:       result.Steps,
				Instruction: result.Instruction,
			})
			return
		}

		result, err := tot.Solve(c.Request.Context(), req.EndingSentences, solver.SolveOptions{
			Steps:           req.Steps,
			MethodEvaluate:  req.MethodEvaluate,
			MethodSelect:    req.MethodSelect,
			NGenerateSample: req.NGenerateSample,
			NEvaluateSample: req.NEvaluateSample,
			NSelectSample:   req.NSelectSample,
			UseCoT:          req.UseCoT,
		})
		if err != nil {
			slog.Error("solve failed", "error", err)
			recordRequest(observability.EndpointSolve, "tot", false)
			recordError(observability.EndpointSolve, observability.ErrorCodeValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slog.Info("solve complete",
			"passages", len(result.Passages), "duration", time.Since(start))
		recordRequest(observability.EndpointSolve, "tot", true)
		c.JSON(http.StatusOK, datatypes.SolveResponse{
			Passages:    result.Passages,
			Steps:       result.Steps,
			Instruction: result.Instruction,
		})
	}
}

// recordRequest and recordError tolerate uninitialized metrics so
// handler tests don't need the Prometheus registry.
func recordRequest(endpoint observability.Endpoint, strategy string, success bool) {
	if observability.DefaultMetrics != nil {
		observability.DefaultMetrics.RecordRequest(endpoint, strategy, success)
	}
}

func recordError(endpoint observability.Endpoint, code observability.ErrorCode) {
	if observability.DefaultMetrics != nil {
		observability.DefaultMetrics.RecordError(endpoint, code)
	}
}
