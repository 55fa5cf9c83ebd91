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

import "math"

// ucbExplorationParam weights the exploration term in UCB. sqrt(2).
const ucbExplorationParam = 1.414

// Node is one state in an MCTS search tree.
//
// Children are exclusively owned by their parent; the parent pointer is a
// plain back-reference and never owns. The tree lives only for the duration
// of one Search call, so no node is ever detached or freed early.
//
// Not safe for concurrent use: a search call owns its tree outright and
// mutates it only from selection and backpropagation.
type Node struct {
	// State is the passage this node represents.
	State string

	// Path is the state sequence from the root to this node, inclusive.
	Path []string

	// Depth is the distance from the root. The root itself is depth 0.
	Depth int

	// Value is the evaluation score assigned at expansion time. Undefined
	// until the node has been visited at least once.
	Value float64

	// Visits counts backpropagation passes through this node.
	Visits int

	// TotalReward accumulates rollout rewards during backpropagation.
	TotalReward float64

	parent   *Node
	children []*Node
}

// Parent returns the back-reference to the owning node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the owned child slice. Callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild materializes a child for the given candidate state and links it
// into the tree.
func (n *Node) AddChild(state string, value float64) *Node {
	child := &Node{
		State:  state,
		Path:   append(append([]string{}, n.Path...), state),
		Depth:  n.Depth + 1,
		Value:  value,
		parent: n,
	}
	n.children = append(n.children, child)
	return child
}

// UCBValue returns the Upper Confidence Bound score balancing exploitation
// (average reward) against exploration (under-visited uncertainty).
//
// An unvisited node scores +Inf so that every child is tried once before
// average rewards become comparable.
func (n *Node) UCBValue() float64 {
	if n.Visits == 0 {
		return math.Inf(1)
	}

	exploration := 0.0
	if n.parent != nil && n.parent.Visits > 0 {
		exploration = ucbExplorationParam *
			math.Sqrt(math.Log(float64(n.parent.Visits))/float64(n.Visits))
	}

	exploitation := n.TotalReward / float64(n.Visits)
	return exploitation + exploration
}

// AvgReward returns total reward per visit, treating an unvisited node as
// having one visit so the division is always defined.
func (n *Node) AvgReward() float64 {
	visits := n.Visits
	if visits < 1 {
		visits = 1
	}
	return n.TotalReward / float64(visits)
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	count := 1
	for _, child := range n.children {
		count += child.Size()
	}
	return count
}
