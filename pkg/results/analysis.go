// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package results

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// StrategyStats aggregates records for one strategy.
type StrategyStats struct {
	N            int     `json:"n"`
	AvgTime      float64 `json:"avg_time"`
	StdTime      float64 `json:"std_time"`
	AvgSteps     float64 `json:"avg_steps"`
	StdSteps     float64 `json:"std_steps"`
	TimePerStep  float64 `json:"time_per_step"`
	SuccessRate  float64 `json:"success_rate"`
	AvgScore     float64 `json:"avg_score"`
	StdScore     float64 `json:"std_score"`
	AvgGen       float64 `json:"avg_gen"`
	StdGen       float64 `json:"std_gen"`
	AvgEval      float64 `json:"avg_eval"`
	StdEval      float64 `json:"std_eval"`
	AvgGenCalls  float64 `json:"avg_gen_calls"`
	AvgEvalCalls float64 `json:"avg_eval_calls"`
}

// TierStats aggregates records for one difficulty tier.
type TierStats struct {
	N           int     `json:"n"`
	AvgTime     float64 `json:"avg_time"`
	StdTime     float64 `json:"std_time"`
	AvgSteps    float64 `json:"avg_steps"`
	StdSteps    float64 `json:"std_steps"`
	TimePerStep float64 `json:"time_per_step"`
	SuccessRate float64 `json:"success_rate"`
	AvgScore    float64 `json:"avg_score"`
	StdScore    float64 `json:"std_score"`
}

// QueryRow is one strategy's result for a query, reduced for the
// per-query comparison.
type QueryRow struct {
	Strategy   string  `json:"strategy"`
	Time       float64 `json:"time"`
	Steps      int     `json:"steps"`
	Success    bool    `json:"success"`
	Score      float64 `json:"score"`
	AnswerHash string  `json:"answer_hash"`
	Gen        int     `json:"gen"`
	Eval       int     `json:"eval"`
}

// QuerySummary compares all strategies that ran one query. The winner
// is the fastest successful strategy, or "none" when every run failed.
type QuerySummary struct {
	Winner           string     `json:"winner"`
	AnswersIdentical bool       `json:"answers_identical"`
	Results          []QueryRow `json:"results"`
}

// Analysis is the full comparative report. The same records always
// produce the same Analysis.
type Analysis struct {
	ByStrategy map[string]StrategyStats `json:"by_strategy"`
	ByTier     map[string]TierStats     `json:"by_tier"`
	ByQuery    map[string]QuerySummary  `json:"by_query"`
}

// Analyze aggregates records by strategy, tier, and query.
func Analyze(records []Record) Analysis {
	byStrategy := make(map[string][]Record)
	byTier := make(map[string][]Record)
	byQuery := make(map[string][]Record)
	for _, r := range records {
		byStrategy[r.Strategy] = append(byStrategy[r.Strategy], r)
		byTier[r.Tier] = append(byTier[r.Tier], r)
		byQuery[r.QueryID] = append(byQuery[r.QueryID], r)
	}

	out := Analysis{
		ByStrategy: make(map[string]StrategyStats, len(byStrategy)),
		ByTier:     make(map[string]TierStats, len(byTier)),
		ByQuery:    make(map[string]QuerySummary, len(byQuery)),
	}

	for name, group := range byStrategy {
		out.ByStrategy[name] = strategyStats(group)
	}
	for name, group := range byTier {
		out.ByTier[name] = tierStats(group)
	}
	for name, group := range byQuery {
		out.ByQuery[name] = querySummary(group)
	}
	return out
}

// WriteAnalysis writes the report as indented JSON, creating parent
// directories as needed.
func WriteAnalysis(a Analysis, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create analysis dir: %w", err)
	}
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o640); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	return nil
}

func strategyStats(group []Record) StrategyStats {
	times := make([]float64, len(group))
	steps := make([]float64, len(group))
	scores := make([]float64, len(group))
	gens := make([]float64, len(group))
	evals := make([]float64, len(group))
	genCalls := make([]float64, len(group))
	evalCalls := make([]float64, len(group))
	successes := 0
	for i, r := range group {
		times[i] = r.ExecutionTime
		steps[i] = float64(r.StepsTaken)
		scores[i] = r.EvaluationScore
		gens[i] = float64(r.totalGenerated())
		evals[i] = float64(r.totalEvaluated())
		if r.Metrics != nil {
			genCalls[i] = float64(r.Metrics.GenerateCalls)
			evalCalls[i] = float64(r.Metrics.EvaluateCalls)
		}
		if r.Success {
			successes++
		}
	}

	avgTime, stdTime := meanStd(times)
	avgSteps, stdSteps := meanStd(steps)
	avgScore, stdScore := meanStd(scores)
	avgGen, stdGen := meanStd(gens)
	avgEval, stdEval := meanStd(evals)
	avgGenCalls, _ := meanStd(genCalls)
	avgEvalCalls, _ := meanStd(evalCalls)

	return StrategyStats{
		N:            len(group),
		AvgTime:      avgTime,
		StdTime:      stdTime,
		AvgSteps:     avgSteps,
		StdSteps:     stdSteps,
		TimePerStep:  safeDiv(sum(times), sum(steps)),
		SuccessRate:  safeDiv(float64(successes), float64(len(group))),
		AvgScore:     avgScore,
		StdScore:     stdScore,
		AvgGen:       avgGen,
		StdGen:       stdGen,
		AvgEval:      avgEval,
		StdEval:      stdEval,
		AvgGenCalls:  avgGenCalls,
		AvgEvalCalls: avgEvalCalls,
	}
}

func tierStats(group []Record) TierStats {
	times := make([]float64, len(group))
	steps := make([]float64, len(group))
	scores := make([]float64, len(group))
	successes := 0
	for i, r := range group {
		times[i] = r.ExecutionTime
		steps[i] = float64(r.StepsTaken)
		scores[i] = r.EvaluationScore
		if r.Success {
			successes++
		}
	}

	avgTime, stdTime := meanStd(times)
	avgSteps, stdSteps := meanStd(steps)
	avgScore, stdScore := meanStd(scores)

	return TierStats{
		N:           len(group),
		AvgTime:     avgTime,
		StdTime:     stdTime,
		AvgSteps:    avgSteps,
		StdSteps:    stdSteps,
		TimePerStep: safeDiv(sum(times), sum(steps)),
		SuccessRate: safeDiv(float64(successes), float64(len(group))),
		AvgScore:    avgScore,
		StdScore:    stdScore,
	}
}

func querySummary(group []Record) QuerySummary {
	rows := make([]QueryRow, len(group))
	hashes := make(map[string]struct{})
	for i, r := range group {
		h := hashAnswer(r.FinalAnswer)
		rows[i] = QueryRow{
			Strategy:   r.Strategy,
			Time:       r.ExecutionTime,
			Steps:      r.StepsTaken,
			Success:    r.Success,
			Score:      r.EvaluationScore,
			AnswerHash: h,
			Gen:        r.totalGenerated(),
			Eval:       r.totalEvaluated(),
		}
		hashes[h] = struct{}{}
	}

	winner := "none"
	bestTime := math.Inf(1)
	for _, row := range rows {
		if row.Success && row.Time < bestTime {
			bestTime = row.Time
			winner = row.Strategy
		}
	}

	return QuerySummary{
		Winner:           winner,
		AnswersIdentical: len(hashes) == 1,
		Results:          rows,
	}
}

// meanStd returns the mean and population standard deviation.
func meanStd(xs []float64) (float64, float64) {
	n := len(xs)
	if n == 0 {
		return 0, 0
	}
	mean := sum(xs) / float64(n)
	variance := 0.0
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(n)
	return mean, math.Sqrt(variance)
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func hashAnswer(answer string) string {
	digest := md5.Sum([]byte(answer))
	return hex.EncodeToString(digest[:])
}
