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

// BestFirst greedily expands the state with the best one-step evaluation
// score. Children are queued by their own score, not an accumulated path
// cost, so the search chases local quality rather than a global optimum.
//
// A state is expanded at most once: pops of already-visited states are
// skipped and do not consume budget.
type BestFirst struct{}

// Name implements Strategy.
func (s *BestFirst) Name() string { return "Best-First" }

// Search implements Strategy.
func (s *BestFirst) Search(initialState string, fns Funcs, maxSteps int, opts Options) *Result {
	result := &Result{Strategy: s.Name()}

	openSet := &valueQueue{{value: 0.0, state: initialState, path: []string{initialState}}}
	heap.Init(openSet)
	visited := make(map[string]bool)

	step := 0
	lastState := initialState

	for openSet.Len() > 0 && step < maxSteps {
		item := heap.Pop(openSet).(queueItem)

		if visited[item.state] {
			continue
		}
		visited[item.state] = true
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
				if visited[candidate] {
					continue
				}
				value := 0.0
				if i < len(values) {
					value = values[i]
				}
				heap.Push(openSet, queueItem{
					value: value,
					state: candidate,
					path:  append(append([]string{}, item.path...), candidate),
				})
			}
		}

		result.SearchHistory = append(result.SearchHistory, HistoryEntry{
			"step":          step,
			"current_state": item.state,
			"current_value": item.value,
			"open_set_size": openSet.Len(),
			"visited_size":  len(visited),
		})

		step++
	}

	result.FinalStates = []string{lastState}
	result.StepsTaken = step
	result.Success = false
	return result
}

// queueItem is one entry in the best-first priority queue.
type queueItem struct {
	value float64
	state string
	path  []string
}

// valueQueue is a max-heap on value with the state string as a
// deterministic tie-break, mirroring tuple ordering in a binary heap.
type valueQueue []queueItem

func (q valueQueue) Len() int { return len(q) }

func (q valueQueue) Less(i, j int) bool {
	if q[i].value != q[j].value {
		return q[i].value > q[j].value
	}
	return q[i].state < q[j].state
}

func (q valueQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *valueQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *valueQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
