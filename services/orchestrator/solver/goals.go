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
	"strings"

	"github.com/AleutianAI/AleutianSearch/pkg/search"
)

// Goal check names accepted by SearchOptions.GoalCheck.
const (
	GoalCheckText      = "text"
	GoalCheckCrossword = "crossword"
	GoalCheckMath      = "math"
)

// goalFunc maps a goal check name onto a search predicate. An empty or
// unknown name uses the length default: the passage is long enough and
// contains at least one target sentence.
func goalFunc(goalCheck string, endingSentences []string) search.GoalFunc {
	switch goalCheck {
	case GoalCheckText:
		return func(state string) bool {
			return search.TextCompletionGoal(state, endingSentences)
		}
	case GoalCheckCrossword:
		target := strings.Join(endingSentences, " ")
		return func(state string) bool {
			return search.CrosswordGoal(state, target)
		}
	case GoalCheckMath:
		target := strings.Join(endingSentences, " ")
		return func(state string) bool {
			return search.MathGoal(state, target)
		}
	default:
		return func(state string) bool {
			if len(strings.TrimSpace(state)) <= 200 {
				return false
			}
			for _, sentence := range endingSentences {
				if strings.Contains(state, sentence) {
					return true
				}
			}
			return false
		}
	}
}
