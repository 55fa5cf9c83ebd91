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
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianSearch/services/llm"
)

// scriptedClient replays canned replies keyed on the prompt kind. Each
// queue repeats its last element once exhausted.
type scriptedClient struct {
	genReplies     []string
	evalReplies    []string
	voteReplies    []string
	compareReplies []string

	genCursor, evalCursor, voteCursor, compareCursor int

	// failGenerations fails the first n generation calls.
	failGenerations int
}

func (s *scriptedClient) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "Generate a coherent passage"):
		if s.failGenerations > 0 {
			s.failGenerations--
			return "", errors.New("backend unavailable")
		}
		return pop(s.genReplies, &s.genCursor), nil
	case strings.HasPrefix(prompt, "Evaluate the coherency"):
		return pop(s.evalReplies, &s.evalCursor), nil
	case strings.HasPrefix(prompt, "Task instruction:"):
		return pop(s.voteReplies, &s.voteCursor), nil
	case strings.HasPrefix(prompt, "Compare the coherency"):
		return pop(s.compareReplies, &s.compareCursor), nil
	}
	return "", errors.New("unexpected prompt: " + prompt[:40])
}

func pop(replies []string, cursor *int) string {
	if len(replies) == 0 {
		return ""
	}
	i := *cursor
	if i >= len(replies) {
		i = len(replies) - 1
	}
	*cursor++
	return replies[i]
}

var endings = []string{
	"It caught him off guard that space smelled of seared steak.",
	"People keep telling me orange but I still prefer pink.",
	"Each person who knows you has a different perception of who you are.",
}

func TestGetValue_AveragesValidScores(t *testing.T) {
	// Arrange: one sample out of range, two valid.
	client := &scriptedClient{evalReplies: []string{"8", "42 stars", "6"}}
	tot := NewTreeOfThought(client)

	// Act
	value := tot.GetValue(context.Background(), "some passage", 3)

	// Assert: (8 + 6) / 2
	assert.InDelta(t, 7.0, value, 1e-9)
}

func TestGetValue_AllSamplesDiscarded(t *testing.T) {
	client := &scriptedClient{evalReplies: []string{"no score here"}}
	tot := NewTreeOfThought(client)

	value := tot.GetValue(context.Background(), "some passage", 3)

	assert.Equal(t, 0.0, value)
}

func TestGetVotes_TalliesValidChoices(t *testing.T) {
	// Arrange: votes for candidate 2, 2, 1, plus one out-of-range reply.
	client := &scriptedClient{voteReplies: []string{"2", "Candidate 2 wins", "1", "9"}}
	tot := NewTreeOfThought(client)

	// Act
	votes := tot.GetVotes(context.Background(), "write a passage", []string{"a", "b", "c"}, 4)

	// Assert
	assert.Equal(t, []int{1, 2, 0}, votes)
}

func TestGenerateSamples_SkipsFailedCalls(t *testing.T) {
	// Arrange: first call fails, remaining two succeed.
	client := &scriptedClient{
		genReplies:      []string{"first passage", "second passage"},
		failGenerations: 1,
	}
	tot := NewTreeOfThought(client)

	// Act
	samples := tot.GenerateSamples(context.Background(), endings, "", 3, false)

	// Assert: failures shrink the batch instead of erroring.
	assert.Equal(t, []string{"first passage", "second passage"}, samples)
}

func TestGenerateSamples_CoTStripsPlan(t *testing.T) {
	client := &scriptedClient{
		genReplies: []string{"Plan: start in orbit.\nPassage:\nThe hatch sealed behind him."},
	}
	tot := NewTreeOfThought(client)

	samples := tot.GenerateSamples(context.Background(), endings, "", 1, true)

	require.Len(t, samples, 1)
	assert.Equal(t, "The hatch sealed behind him.", samples[0])
}

func TestSolve_GreedySelectionKeepsBest(t *testing.T) {
	// Arrange: one round, three candidates scored 2, 9, 5.
	client := &scriptedClient{
		genReplies:  []string{"A", "B", "C"},
		evalReplies: []string{"2", "9", "5"},
	}
	tot := NewTreeOfThought(client)

	// Act
	result, err := tot.Solve(context.Background(), endings, SolveOptions{
		Steps:           1,
		NGenerateSample: 3,
		NEvaluateSample: 1,
		NSelectSample:   2,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, result.Passages)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, []string{"A", "B", "C"}, result.Steps[0].NewStates)
	assert.Equal(t, []float64{2, 9, 5}, result.Steps[0].Values)
	assert.Contains(t, result.Instruction, endings[0])
}

func TestSolve_VoteEvaluation(t *testing.T) {
	// Arrange: three candidates; votes land 1x on A, 2x on B.
	client := &scriptedClient{
		genReplies:  []string{"A", "B", "C"},
		voteReplies: []string{"2", "2", "1"},
	}
	tot := NewTreeOfThought(client)

	// Act
	result, err := tot.Solve(context.Background(), endings, SolveOptions{
		Steps:           1,
		MethodEvaluate:  MethodEvaluateVote,
		NGenerateSample: 3,
		NEvaluateSample: 3,
		NSelectSample:   1,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, result.Passages)
	assert.Equal(t, []float64{1, 2, 0}, result.Steps[0].Values)
}

func TestSolve_UnsupportedMethodsRejected(t *testing.T) {
	tot := NewTreeOfThought(&scriptedClient{})

	_, err := tot.Solve(context.Background(), endings, SolveOptions{MethodEvaluate: "oracle"})
	require.Error(t, err)

	_, err = tot.Solve(context.Background(), endings, SolveOptions{MethodSelect: "roulette"})
	require.Error(t, err)
}

func TestSolve_AllGenerationsFailKeepsCurrent(t *testing.T) {
	// Arrange: every generation call fails, so the round falls back to
	// the existing states (the empty root).
	client := &scriptedClient{
		failGenerations: 100,
		evalReplies:     []string{"5"},
	}
	tot := NewTreeOfThought(client)

	result, err := tot.Solve(context.Background(), endings, SolveOptions{
		Steps:           1,
		NGenerateSample: 3,
		NEvaluateSample: 1,
		NSelectSample:   2,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{""}, result.Passages)
}

func TestSampleSelect_ZeroMassTakesPrefix(t *testing.T) {
	tot := NewTreeOfThought(&scriptedClient{})

	selected := tot.sampleSelect([]string{"a", "b", "c"}, []float64{0, 0, 0}, 2)

	assert.Equal(t, []string{"a", "b"}, selected)
}

func TestNaiveSolve_GeneratesOnce(t *testing.T) {
	client := &scriptedClient{genReplies: []string{"one", "two"}}
	tot := NewTreeOfThought(client)

	result := tot.NaiveSolve(context.Background(), endings, 2, false)

	assert.Equal(t, []string{"one", "two"}, result.Passages)
	assert.Empty(t, result.Steps)
}

func TestSolveWithSearch_BFSReachesTextGoal(t *testing.T) {
	// Arrange: the single candidate contains every ending sentence, so
	// the text goal fires on the first round.
	full := strings.Join(endings, " ")
	client := &scriptedClient{
		genReplies:  []string{full},
		evalReplies: []string{"9"},
	}
	tot := NewTreeOfThought(client)

	// Act
	result, err := tot.SolveWithSearch(context.Background(), endings, SearchOptions{
		Strategy:        "bfs",
		MaxSteps:        2,
		NGenerateSample: 1,
		NEvaluateSample: 1,
		GoalCheck:       GoalCheckText,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "bfs", result.Strategy)
	require.NotEmpty(t, result.FinalStates)
	assert.Equal(t, full, result.FinalStates[0])
}

func TestSolveWithSearch_UnknownStrategy(t *testing.T) {
	tot := NewTreeOfThought(&scriptedClient{})

	_, err := tot.SolveWithSearch(context.Background(), endings, SearchOptions{Strategy: "oracle"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestDefaultGoal_RequiresLengthAndEnding(t *testing.T) {
	goal := goalFunc("", endings)

	long := strings.Repeat("filler text ", 20) + endings[1]
	assert.True(t, goal(long))
	assert.False(t, goal(endings[1]), "short passages fail the length floor")
	assert.False(t, goal(strings.Repeat("filler text ", 30)), "long passages without an ending fail")
}

func TestEvaluatePassage_KeepsIndividualScores(t *testing.T) {
	client := &scriptedClient{evalReplies: []string{"7", "nope", "9"}}
	tot := NewTreeOfThought(client)

	eval := tot.EvaluatePassage(context.Background(), "four words right here", 3)

	assert.InDelta(t, 8.0, eval.Score, 1e-9)
	assert.Equal(t, []int{7, 9}, eval.IndividualScores)
	assert.Equal(t, 2, eval.NEvaluations)
	assert.Equal(t, 4, eval.PassageLength)
}

func TestComparePassages_MajorityWins(t *testing.T) {
	client := &scriptedClient{compareReplies: []string{"2", "second", "equal"}}
	tot := NewTreeOfThought(client)

	c := tot.ComparePassages(context.Background(), "left", "right", 3)

	assert.Equal(t, 2, c.Winner)
	assert.Equal(t, 0, c.P1Wins)
	assert.Equal(t, 2, c.P2Wins)
	assert.Equal(t, 1, c.Ties)
	assert.Equal(t, 3, c.TotalComparisons)
	assert.InDelta(t, 2.0/3.0, c.Confidence, 1e-9)
}

func TestRankPassages_SortsByScore(t *testing.T) {
	client := &scriptedClient{evalReplies: []string{"3", "8", "5"}}
	tot := NewTreeOfThought(client)

	ranked := tot.RankPassages(context.Background(), []string{"low", "high", "mid"}, 1)

	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Passage)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 1, ranked[0].OriginalIndex)
	assert.Equal(t, "low", ranked[2].Passage)
	assert.Equal(t, 3, ranked[2].Rank)
}
