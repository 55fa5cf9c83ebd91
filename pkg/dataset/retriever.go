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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Retriever ranks paragraph chunks by word overlap with a query.
//
// It is deliberately simple: no embeddings, no index, just set
// intersection over lowercased whitespace tokens. Good enough to feed
// grounded context into generation prompts during benchmark runs.
type Retriever struct {
	chunks []string
}

// NewRetriever splits text into paragraph chunks (blank-line
// separated).
func NewRetriever(text string) *Retriever {
	return &Retriever{chunks: strings.Split(text, "\n\n")}
}

// LoadKnowledgeBase concatenates every .txt file in dir, separated by
// blank lines, for use as retriever input.
func LoadKnowledgeBase(dir string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return "", fmt.Errorf("glob knowledge base: %w", err)
	}
	sort.Strings(paths)

	var texts []string
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("read knowledge base file %s: %w", p, err)
		}
		texts = append(texts, string(raw))
	}
	return strings.Join(texts, "\n\n"), nil
}

// Retrieve returns the topK chunks with the highest word overlap with
// the query. Ties keep the original chunk order.
func (r *Retriever) Retrieve(query string, topK int) []string {
	queryWords := wordSet(query)

	type scored struct {
		score int
		chunk string
	}
	scores := make([]scored, 0, len(r.chunks))
	for _, chunk := range r.chunks {
		overlap := 0
		for w := range wordSet(chunk) {
			if _, ok := queryWords[w]; ok {
				overlap++
			}
		}
		scores = append(scores, scored{score: overlap, chunk: chunk})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]string, 0, topK)
	for _, s := range scores[:topK] {
		out = append(out, s.chunk)
	}
	return out
}

// wordSet lowercases and tokenizes on whitespace.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
