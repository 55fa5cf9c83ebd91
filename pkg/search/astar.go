// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import "container/heap"

// AStar orders expansion by f = g + h. The path cost g accumulates
// (1 - evaluation score) per edge, so a higher-quality candidate means a
// cheaper edge; this assumes the evaluator keeps its scores on one
// comparable unit scale. The heuristic h is the negated estimate of the
// candidate's promise.
//
// When no heuristic is supplied, the injected evaluator itself is used, one
// state per call, and each call counts toward the evaluation metrics on top
// of the batch evaluation of siblings.
type AStar struct{}

// Name implements Strategy.
func (s *AStar) Name() string { return "A*" }

// Search implements Strategy.
func (s *AStar) Search(initialState string, fns Funcs, maxSteps int, opts Options) *Result {
	result := &Result{Strategy: s.Name()}

	heuristic := opts.Heuristic
	if heuristic == nil {
		heuristic = func(state string) float64 {
			if state == "" {
				return 0.0
			}
			values := fns.Evaluate([]string{state})
			result.Metrics.countEvaluate(1)
			if len(values) == 0 {
				return 0.0
			}
			return values[0]
		}
	}

	openSet := &costQueue{{fScore: 0.0, gScore: 0.0, state: initialState, path: []string{initialState}}}
	heap.Init(openSet)
	closedSet := make(map[string]bool)

	step := 0
	lastState := initialState

	for openSet.Len() > 0 && step < maxSteps {
		item := heap.Pop(openSet).(costItem)

		if closedSet[item.state] {
			continue
		}
		closedSet[item.state] = true
		lastState = item.state

		if fns.IsGoal(item.state) {
			result.FinalStates = []string{item.state}
			result.StepsTaken = step
			result.Success = true
			result.BestPath = item.path
			return result
		}

		candidates := fns.Generate(item.state, opts.nGenerate())
		result.Metrics.countGenerate(candidates)
		if len(candidates) > 0 {
			values := fns.Evaluate(candidates)
			result.Metrics.countEvaluate(len(candidates))

			for i, candidate := range candidates {
				if closedSet[candidate] {
					continue
				}
				value := 0.0
				if i < len(values) {
					value = values[i]
				}

				// Lower evaluation means a more expensive edge.
				gScore := item.gScore + (1.0 - value)
				hScore := -heuristic(candidate)
				fScore := gScore + hScore

				heap.Push(openSet, costItem{
					fScore: fScore,
					gScore: gScore,
					state:  candidate,
					path:   append(append([]string{}, item.path...), candidate),
				})
			}
		}

		result.SearchHistory = append(result.SearchHistory, HistoryEntry{
			"step":            step,
			"current_state":   item.state,
			"f_score":         item.fScore,
			"g_score":         item.gScore,
			"open_set_size":   openSet.Len(),
			"closed_set_size": len(closedSet),
		})

		step++
	}

	result.FinalStates = []string{lastState}
	result.StepsTaken = step
	result.Success = false
	return result
}

// costItem is one entry in the A* priority queue.
type costItem struct {
	fScore float64
	gScore float64
	state  string
	path   []string
}

// costQueue is a min-heap over (fScore, gScore, state) in tuple order.
type costQueue []costItem

func (q costQueue) Len() int { return len(q) }

func (q costQueue) Less(i, j int) bool {
	if q[i].fScore != q[j].fScore {
		return q[i].fScore < q[j].fScore
	}
	if q[i].gScore != q[j].gScore {
		return q[i].gScore < q[j].gScore
	}
	return q[i].state < q[j].state
}

func (q costQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *costQueue) Push(x any) { *q = append(*q, x.(costItem)) }

func (q *costQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
