// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Query is one benchmark question with its difficulty tier.
type Query struct {
	ID   string `json:"id" yaml:"id"`
	Tier string `json:"tier" yaml:"tier"`
	Text string `json:"text" yaml:"text"`
}

// Profile holds per-tier search parameters.
type Profile struct {
	MaxSteps int `json:"max_steps" yaml:"max_steps"`
	NSelect  int `json:"n_select" yaml:"n_select"`
}

// ProfileParams maps tier names to their search parameters. Tiers grade
// from quick sanity runs to longer stress runs.
var ProfileParams = map[string]Profile{
	"easy":   {MaxSteps: 3, NSelect: 2},
	"smoke":  {MaxSteps: 4, NSelect: 2},
	"stress": {MaxSteps: 6, NSelect: 3},
}

// ProfileFor returns the parameters for a tier, falling back to
// MaxSteps 5 / NSelect 2 for unknown tiers.
func ProfileFor(tier string) Profile {
	if p, ok := ProfileParams[tier]; ok {
		return p
	}
	return Profile{MaxSteps: 5, NSelect: 2}
}

// LoadQueries reads a query set from a JSON or YAML file. The format
// is picked by file extension (.yaml/.yml for YAML, JSON otherwise).
//
// With a non-empty tier, only queries of that tier are returned.
func LoadQueries(path, tier string) ([]Query, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query set: %w", err)
	}

	var queries []Query
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &queries); err != nil {
			return nil, fmt.Errorf("parse query set %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &queries); err != nil {
			return nil, fmt.Errorf("parse query set %s: %w", path, err)
		}
	}

	if tier == "" {
		return queries, nil
	}
	var filtered []Query
	for _, q := range queries {
		if q.Tier == tier {
			filtered = append(filtered, q)
		}
	}
	return filtered, nil
}
