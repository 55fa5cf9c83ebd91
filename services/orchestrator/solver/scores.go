// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solver

import (
	"regexp"
	"strconv"
	"strings"
)

var digitsPattern = regexp.MustCompile(`(\d+)`)

// extractScore pulls a coherency score out of a raw model reply. The
// first integer found must be in [1, 10]; anything else is discarded.
func extractScore(output string) (int, bool) {
	match := digitsPattern.FindString(strings.TrimSpace(output))
	if match == "" {
		return 0, false
	}
	score, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	if score < 1 || score > 10 {
		return 0, false
	}
	return score, true
}

// extractChoice pulls a 0-based candidate index out of a vote reply.
// The model answers with 1-based indices.
func extractChoice(output string, nCandidates int) (int, bool) {
	match := digitsPattern.FindString(strings.TrimSpace(output))
	if match == "" {
		return 0, false
	}
	choice, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	idx := choice - 1
	if idx < 0 || idx >= nCandidates {
		return 0, false
	}
	return idx, true
}

// Comparison outcomes from extractComparison.
const (
	comparisonTie    = 0
	comparisonFirst  = 1
	comparisonSecond = 2
)

// extractComparison interprets a pairwise comparison reply: 1 if the
// first passage won, 2 if the second, 0 for a tie.
func extractComparison(output string) (int, bool) {
	out := strings.ToLower(strings.TrimSpace(output))
	switch {
	case strings.Contains(out, "1") || strings.Contains(out, "first") || strings.Contains(out, "passage 1"):
		return comparisonFirst, true
	case strings.Contains(out, "2") || strings.Contains(out, "second") || strings.Contains(out, "passage 2"):
		return comparisonSecond, true
	case strings.Contains(out, "equal") || strings.Contains(out, "similar") || strings.Contains(out, "tie"):
		return comparisonTie, true
	}
	return 0, false
}

// extractPassage strips a chain-of-thought plan from a generation
// reply, returning only the text after the final "Passage:" marker.
// Replies without the marker are returned unchanged.
func extractPassage(output string) string {
	idx := strings.LastIndex(output, "Passage:")
	if idx < 0 {
		return strings.TrimSpace(output)
	}
	return strings.TrimSpace(output[idx+len("Passage:"):])
}
