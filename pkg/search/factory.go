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
	"fmt"
	"sort"
	"strings"
)

// strategyConstructors maps canonical strategy names to constructors.
// A fresh instance is returned per call so no state ever leaks between
// searches, even if an implementation grows fields later.
var strategyConstructors = map[string]func() Strategy{
	"bfs":        func() Strategy { return &BreadthFirst{} },
	"dfs":        func() Strategy { return &DepthFirst{} },
	"mcts":       func() Strategy { return &MonteCarloTree{} },
	"astar":      func() Strategy { return &AStar{} },
	"beam":       func() Strategy { return &Beam{} },
	"best_first": func() Strategy { return &BestFirst{} },
}

// NewStrategy returns a fresh strategy instance for the given
// case-insensitive name. Unknown names fail with an error listing every
// valid name; this is a caller configuration error and should be fatal.
func NewStrategy(name string) (Strategy, error) {
	constructor, ok := strategyConstructors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s (available: %s)",
			name, strings.Join(StrategyNames(), ", "))
	}
	return constructor(), nil
}

// StrategyNames returns the canonical strategy names in sorted order.
func StrategyNames() []string {
	names := make([]string, 0, len(strategyConstructors))
	for name := range strategyConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
