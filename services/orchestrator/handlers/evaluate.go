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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianSearch/services/llm"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/solver"
)

// HandleEvaluate scores a single passage for coherency, returning the
// averaged score plus each individual sample.
func HandleEvaluate(llmClient llm.LLMClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.EvaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordError(observability.EndpointEvaluate, observability.ErrorCodeValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.NSamples <= 0 {
			req.NSamples = 5
		}

		tot := solver.NewTreeOfThought(llmClient)
		eval := tot.EvaluatePassage(c.Request.Context(), req.Passage, req.NSamples)

		recordRequest(observability.EndpointEvaluate, "evaluate", true)
		c.JSON(http.StatusOK, eval)
	}
}

// HandleCompare runs pairwise comparison between two passages.
func HandleCompare(llmClient llm.LLMClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordError(observability.EndpointEvaluate, observability.ErrorCodeValidation)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.NSamples <= 0 {
			req.NSamples = 3
		}

		tot := solver.NewTreeOfThought(llmClient)
		comparison := tot.ComparePassages(c.Request.Context(), req.Passage1, req.Passage2, req.NSamples)

		recordRequest(observability.EndpointEvaluate, "compare", true)
		c.JSON(http.StatusOK, comparison)
	}
}
