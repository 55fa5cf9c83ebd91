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

import (
	"math"
	"math/rand"
	"time"
)

const (
	// defaultSimulationsPerStep is the simulation count per outer round.
	defaultSimulationsPerStep = 10

	// rolloutMaxDepth bounds the random walk of one simulation.
	rolloutMaxDepth = 5

	// rolloutCandidates is the generation fan-out during rollouts. Kept
	// small because rollout states are throwaway estimates.
	rolloutCandidates = 2

	// goalBonus is added to a rollout reward that reaches a goal state.
	goalBonus = 10.0
)

// MonteCarloTree balances exploration and exploitation over one persistent
// tree per Search call. Each outer round runs a batch of simulations
// (selection by UCB, expansion, bounded random rollout, backpropagation);
// the round terminates the search when its best-reward node satisfies the
// goal. On budget exhaustion the leaf with the highest average reward is
// returned as the failed result.
type MonteCarloTree struct{}

// Name implements Strategy.
func (s *MonteCarloTree) Name() string { return "MCTS" }

// Search implements Strategy.
func (s *MonteCarloTree) Search(initialState string, fns Funcs, maxSteps int, opts Options) *Result {
	simulations := opts.SimulationsPerStep
	if simulations <= 0 {
		simulations = defaultSimulationsPerStep
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	root := &Node{State: initialState, Path: []string{initialState}}
	result := &Result{Strategy: s.Name()}

	for step := 0; step < maxSteps; step++ {
		bestReward := math.Inf(-1)
		var bestNode *Node

		for sim := 0; sim < simulations; sim++ {
			node := selectNode(root)

			if !fns.IsGoal(node.State) && len(node.Children()) == 0 {
				expandNode(node, fns, opts.nGenerate(), &result.Metrics)
			}

			reward := simulate(node, fns, rng, &result.Metrics)
			backpropagate(node, reward)

			if reward > bestReward {
				bestReward = reward
				bestNode = node
			}
		}

		if bestNode != nil && fns.IsGoal(bestNode.State) {
			result.FinalStates = []string{bestNode.State}
			result.StepsTaken = step + 1
			result.Success = true
			result.BestPath = bestNode.Path
			return result
		}

		bestState := root.State
		if bestNode != nil {
			bestState = bestNode.State
		}
		result.SearchHistory = append(result.SearchHistory, HistoryEntry{
			"step":        step,
			"best_node":   bestState,
			"best_reward": bestReward,
			"tree_size":   root.Size(),
		})
	}

	bestLeaf := bestLeafByAvgReward(root)
	result.FinalStates = []string{bestLeaf.State}
	result.StepsTaken = maxSteps
	result.Success = false
	result.BestPath = bestLeaf.Path
	return result
}

// selectNode descends from node by always taking the child with the highest
// UCB value until a leaf is reached. Unvisited children score +Inf, so every
// child is tried once before average rewards drive the descent.
func selectNode(node *Node) *Node {
	for len(node.Children()) > 0 {
		var best *Node
		bestUCB := math.Inf(-1)
		for _, child := range node.Children() {
			if ucb := child.UCBValue(); ucb > bestUCB {
				bestUCB = ucb
				best = child
			}
		}
		node = best
	}
	return node
}

// expandNode materializes one child per generated candidate, seeding each
// child's value with its evaluation score.
func expandNode(node *Node, fns Funcs, nGenerate int, metrics *Metrics) {
	candidates := fns.Generate(node.State, nGenerate)
	metrics.countGenerate(candidates)
	if len(candidates) == 0 {
		return
	}

	values := fns.Evaluate(candidates)
	metrics.countEvaluate(len(candidates))

	for i, candidate := range candidates {
		value := 0.0
		if i < len(values) {
			value = values[i]
		}
		node.AddChild(candidate, value)
	}
}

// simulate performs a bounded random walk from node, accumulating
// evaluation scores into a running reward. Reaching a goal state ends the
// walk early and earns a fixed bonus.
func simulate(node *Node, fns Funcs, rng RolloutRand, metrics *Metrics) float64 {
	currentState := node.State
	totalReward := node.Value
	depth := 0

	for depth < rolloutMaxDepth && !fns.IsGoal(currentState) {
		candidates := fns.Generate(currentState, rolloutCandidates)
		metrics.countGenerate(candidates)
		if len(candidates) == 0 {
			break
		}

		currentState = candidates[rng.Intn(len(candidates))]
		values := fns.Evaluate([]string{currentState})
		metrics.countEvaluate(1)
		if len(values) > 0 {
			totalReward += values[0]
		}
		depth++
	}

	if fns.IsGoal(currentState) {
		totalReward += goalBonus
	}

	return totalReward
}

// backpropagate walks from node to the root inclusive, updating visit
// counts and accumulated reward at every ancestor.
func backpropagate(node *Node, reward float64) {
	for node != nil {
		node.Visits++
		node.TotalReward += reward
		node = node.Parent()
	}
}

// bestLeafByAvgReward descends from node by highest average reward until a
// leaf is reached.
func bestLeafByAvgReward(node *Node) *Node {
	for len(node.Children()) > 0 {
		var best *Node
		bestAvg := math.Inf(-1)
		for _, child := range node.Children() {
			if avg := child.AvgReward(); avg > bestAvg {
				bestAvg = avg
				best = child
			}
		}
		node = best
	}
	return node
}
