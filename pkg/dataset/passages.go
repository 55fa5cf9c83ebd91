// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset loads the inputs for passage-generation runs: the
// ending-sentence corpus, tiered query sets, and a lightweight
// word-overlap retriever over a plain-text knowledge base.
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Example is one passage-generation task: a set of ending sentences
// that the generated passage's paragraphs must finish with.
type Example struct {
	// EndingSentences holds the target sentences, period-stripped.
	EndingSentences []string

	// Raw is the original dataset line, kept for reference.
	Raw string
}

// PassageDataset is a line-per-example corpus. Each usable line carries
// at least four sentences; the first four become the example's ending
// sentences.
type PassageDataset struct {
	examples []Example
}

// LoadPassages reads a passage dataset from a text file.
//
// Lines are split on "." and trimmed. Lines with fewer than four
// sentences are skipped.
func LoadPassages(path string) (*PassageDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open passage dataset: %w", err)
	}
	defer f.Close()

	ds := &PassageDataset{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sentences := splitSentences(line)
		if len(sentences) < 4 {
			continue
		}
		ds.examples = append(ds.examples, Example{
			EndingSentences: sentences[:4],
			Raw:             line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read passage dataset: %w", err)
	}
	return ds, nil
}

// splitSentences splits a line on "." and drops empty fragments.
func splitSentences(line string) []string {
	var out []string
	for _, part := range strings.Split(line, ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Len returns the number of examples in the dataset.
func (d *PassageDataset) Len() int {
	return len(d.examples)
}

// Example returns the example at index i.
func (d *PassageDataset) Example(i int) Example {
	return d.examples[i]
}

// TrainSplit returns the first n examples. With n <= 0, half the
// dataset is used.
func (d *PassageDataset) TrainSplit(n int) []Example {
	if n <= 0 {
		n = len(d.examples) / 2
	}
	if n > len(d.examples) {
		n = len(d.examples)
	}
	return d.examples[:n]
}

// DevSplit returns n examples starting at the midpoint. With n <= 0, a
// quarter of the dataset is used.
func (d *PassageDataset) DevSplit(n int) []Example {
	if n <= 0 {
		n = len(d.examples) / 4
	}
	start := len(d.examples) / 2
	end := start + n
	if end > len(d.examples) {
		end = len(d.examples)
	}
	return d.examples[start:end]
}

// TestSplit returns the last n examples. With n <= 0, a quarter of the
// dataset is used.
func (d *PassageDataset) TestSplit(n int) []Example {
	if n <= 0 {
		n = len(d.examples) / 4
	}
	start := len(d.examples) - n
	if start < 0 {
		start = 0
	}
	return d.examples[start:]
}
