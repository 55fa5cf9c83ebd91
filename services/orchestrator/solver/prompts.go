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
	"fmt"
	"strings"
)

// Prompt templates for the text generation task. Each builder renders a
// single self-contained prompt; the model's raw completion is parsed by
// the extractors in scores.go.

// Instruction returns the task instruction shown to voting prompts and
// stored alongside results.
func Instruction(endingSentences []string) string {
	return fmt.Sprintf(
		"Write a coherent passage of 4 short paragraphs. The end sentence of each paragraph must be: %s",
		strings.Join(endingSentences, " "))
}

// GenerationPrompt asks the model to produce a passage whose paragraphs
// end with the given sentences. When useCoT is set the model is asked
// to plan before writing; only the passage after the "Passage:" marker
// is kept by the caller.
func GenerationPrompt(endingSentences []string, currentPassage string, useCoT bool) string {
	var b strings.Builder
	b.WriteString("Generate a coherent passage of 4 short paragraphs. ")
	b.WriteString("Each paragraph must end with one of the following sentences, in order:\n")
	for i, s := range endingSentences {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	if currentPassage != "" {
		b.WriteString("\nThe passage so far:\n")
		b.WriteString(currentPassage)
		b.WriteString("\n\nContinue or revise the passage so every paragraph ends with its sentence.\n")
	}
	if useCoT {
		b.WriteString("\nFirst write a short plan for the passage, then write the passage itself after a line that says \"Passage:\".\n")
	} else {
		b.WriteString("\nReply with the passage only.\n")
	}
	return b.String()
}

// EvaluationPrompt asks for a coherency score from 1 to 10.
func EvaluationPrompt(passage string) string {
	return fmt.Sprintf(
		"Evaluate the coherency of the following text passage.\n\nPassage:\n%s\n\nReply with a single coherency score from 1 to 10 (integer).",
		passage)
}

// VotePrompt asks the model to pick the best candidate. The reply must
// contain the 1-based index of the winner.
func VotePrompt(instruction string, candidates []string) string {
	var b strings.Builder
	b.WriteString("Task instruction: ")
	b.WriteString(instruction)
	b.WriteString("\n\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "\nCandidate %d:\n%s\n", i+1, c)
	}
	b.WriteString("\nAnalyze each candidate, then reply with the index (1-based) of the best candidate passage.\n")
	return b.String()
}

// ComparisonPrompt asks which of two passages is more coherent: "1",
// "2", or "equal".
func ComparisonPrompt(passage1, passage2 string) string {
	return fmt.Sprintf(
		"Compare the coherency of two text passages.\n\nPassage 1:\n%s\n\nPassage 2:\n%s\n\nReply with '1' if passage 1 is more coherent, '2' if passage 2 is more coherent, or 'equal' if they are similarly coherent.",
		passage1, passage2)
}

// ContinuationPrompt asks for the next part of an answer grounded in
// retrieved reference text.
func ContinuationPrompt(query, retrievedInfo, currentAnswer string) string {
	return fmt.Sprintf(
		"Question: %s\n\nRelevant information:\n%s\n\nCurrent partial answer:\n%s\n\nWrite the next continuation of the answer.",
		query, retrievedInfo, currentAnswer)
}
