// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package results persists benchmark run records and aggregates them
// into comparative summaries across strategies, tiers, and queries.
package results

import (
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianSearch/pkg/search"
)

// Record is the result of running one query with one strategy.
//
// One record is written per query x strategy pair. The JSON shape is
// the interchange format consumed by the analysis step, so field names
// are stable.
type Record struct {
	// RunID uniquely identifies this run of the query.
	RunID string `json:"run_id,omitempty"`

	QueryID  string `json:"query_id"`
	Tier     string `json:"tier"`
	Strategy string `json:"strategy"`
	Question string `json:"question"`

	// ExecutionTime is wall-clock seconds for the search.
	ExecutionTime float64 `json:"execution_time"`

	Success    bool `json:"success"`
	StepsTaken int  `json:"steps_taken"`

	FinalAnswer      string  `json:"final_answer"`
	EvaluationScore  float64 `json:"evaluation_score"`
	IndividualScores []int   `json:"individual_scores"`
	NEvaluations     int     `json:"n_evaluations"`

	SearchHistory []search.HistoryEntry `json:"search_history,omitempty"`
	Metrics       *search.Metrics       `json:"metrics,omitempty"`
}

// NewRecord returns a Record for a query x strategy pair with a fresh
// run ID.
func NewRecord(queryID, tier, strategy, question string) Record {
	return Record{
		RunID:    uuid.NewString(),
		QueryID:  queryID,
		Tier:     tier,
		Strategy: strategy,
		Question: question,
	}
}

// totalGenerated returns the generated-candidate count, zero when
// metrics were not recorded.
func (r Record) totalGenerated() int {
	if r.Metrics == nil {
		return 0
	}
	return r.Metrics.TotalGenerated
}

// totalEvaluated returns the evaluated-candidate count, zero when
// metrics were not recorded.
func (r Record) totalEvaluated() int {
	if r.Metrics == nil {
		return 0
	}
	return r.Metrics.TotalEvaluated
}
