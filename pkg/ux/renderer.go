// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StepSummary is one search step reduced for display.
type StepSummary struct {
	Step       int
	Candidates int
	Kept       int
	BestScore  float64
}

// StrategyRow is one line of the comparative analysis table.
type StrategyRow struct {
	Strategy    string
	Runs        int
	AvgTime     float64
	SuccessRate float64
	AvgScore    float64
}

// RenderPassage returns a passage boxed with its evaluation score.
//
// Machine mode returns the raw passage followed by a SCORE line so the
// output stays greppable.
func RenderPassage(passage string, score float64) string {
	if GetPersonality().Level == PersonalityMachine {
		return fmt.Sprintf("%s\nSCORE: %.2f\n", passage, score)
	}

	header := Styles.Title.Render(fmt.Sprintf("Passage (score %.2f)", score))
	box := Styles.Box.Width(76)
	return box.Render(header+"\n\n"+passage) + "\n"
}

// RenderSteps returns a per-step trace of a search run.
func RenderSteps(steps []StepSummary) string {
	if len(steps) == 0 {
		return ""
	}

	if GetPersonality().Level == PersonalityMachine {
		var b strings.Builder
		for _, s := range steps {
			fmt.Fprintf(&b, "STEP %d: candidates=%d kept=%d best=%.2f\n",
				s.Step, s.Candidates, s.Kept, s.BestScore)
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString(Styles.Subtitle.Render("Search trace") + "\n")
	for _, s := range steps {
		line := fmt.Sprintf("step %d  %s %d candidates, kept %d, best %.2f",
			s.Step, IconArrow, s.Candidates, s.Kept, s.BestScore)
		b.WriteString(Styles.Muted.Render("│ ") + line + "\n")
	}
	return b.String()
}

// RenderStrategyTable returns the comparative analysis table, sorted by
// average score descending.
func RenderStrategyTable(rows []StrategyRow) string {
	if len(rows) == 0 {
		return ""
	}

	sorted := make([]StrategyRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AvgScore > sorted[j].AvgScore
	})

	if GetPersonality().Level == PersonalityMachine {
		var b strings.Builder
		for _, r := range sorted {
			fmt.Fprintf(&b, "%s\tn=%d\tavg_time=%.3f\tsuccess=%.2f\tavg_score=%.2f\n",
				r.Strategy, r.Runs, r.AvgTime, r.SuccessRate, r.AvgScore)
		}
		return b.String()
	}

	var b strings.Builder
	header := fmt.Sprintf("%-12s %4s %10s %9s %10s", "strategy", "n", "avg time", "success", "avg score")
	b.WriteString(Styles.Bold.Render(header) + "\n")
	for i, r := range sorted {
		line := fmt.Sprintf("%-12s %4d %9.3fs %8.0f%% %10.2f",
			r.Strategy, r.Runs, r.AvgTime, r.SuccessRate*100, r.AvgScore)
		if i == 0 {
			b.WriteString(Styles.Highlight.Render(line) + "\n")
			continue
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderWinner returns the per-query winner line.
func RenderWinner(queryID, winner string) string {
	if GetPersonality().Level == PersonalityMachine {
		return fmt.Sprintf("%s\twinner=%s\n", queryID, winner)
	}
	if winner == "none" {
		return fmt.Sprintf("%s %s %s\n", IconPending.Render(), queryID,
			Styles.Muted.Render("no successful run"))
	}
	return fmt.Sprintf("%s %s %s %s\n", IconSuccess.Render(), queryID,
		Styles.Muted.Render("won by"), Styles.Highlight.Render(winner))
}

// Banner returns the demo banner with the strategy name.
func Banner(strategy string) string {
	if GetPersonality().Level == PersonalityMachine {
		return ""
	}
	title := fmt.Sprintf("%s AleutianSearch %s %s", IconAnchor, IconArrow, strategy)
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorTealBright).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 2).
		Render(title) + "\n"
}
