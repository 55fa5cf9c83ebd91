// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianSearch/pkg/results"
	"github.com/AleutianAI/AleutianSearch/pkg/ux"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Backend != "ollama" {
		t.Errorf("Backend = %q, want %q", cfg.Backend, "ollama")
	}
	if cfg.QueriesPath != "test/queries.json" {
		t.Errorf("QueriesPath = %q, want %q", cfg.QueriesPath, "test/queries.json")
	}
	if cfg.ResultsDir != "test/results" {
		t.Errorf("ResultsDir = %q, want %q", cfg.ResultsDir, "test/results")
	}
	if cfg.ArchiveDir != "test/results_archive" {
		t.Errorf("ArchiveDir = %q, want %q", cfg.ArchiveDir, "test/results_archive")
	}
	if cfg.RequestsPerSecond != 0 {
		t.Errorf("RequestsPerSecond = %v, want 0", cfg.RequestsPerSecond)
	}
}

func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	queries := `[
  {"id": "q1", "tier": "easy", "text": "what is beam search"},
  {"id": "q2", "tier": "smoke", "text": "what is mcts"}
]`
	queriesPath := filepath.Join(dir, "queries.json")
	if err := os.WriteFile(queriesPath, []byte(queries), 0o640); err != nil {
		t.Fatalf("writing queries: %v", err)
	}

	prev := config
	t.Cleanup(func() { config = prev })
	config = defaultConfig()
	config.QueriesPath = queriesPath
	config.ResultsDir = filepath.Join(dir, "results")
	config.ArchiveDir = filepath.Join(dir, "archive")
	config.AnalysisPath = filepath.Join(dir, "analysis", "comparative_analysis_result.json")
	config.KnowledgeDir = filepath.Join(dir, "kb")

	prevPersonality := ux.GetPersonality()
	t.Cleanup(func() { ux.SetPersonality(prevPersonality) })
	ux.SetPersonalityLevel(ux.PersonalityMachine)

	return dir
}

func TestRunBenchmark_DryRun(t *testing.T) {
	setupTestConfig(t)
	runDryRun = true
	runStrategy = "beam"
	t.Cleanup(func() { runDryRun = false; runStrategy = "" })

	if err := runBenchmark(runCmd, nil); err != nil {
		t.Fatalf("runBenchmark dry run: %v", err)
	}
}

func TestRunBenchmark_UnknownStrategy(t *testing.T) {
	setupTestConfig(t)
	runStrategy = "oracle"
	t.Cleanup(func() { runStrategy = "" })

	err := runBenchmark(runCmd, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
	if !strings.Contains(err.Error(), "unknown strategy") {
		t.Errorf("error = %q, want it to mention the unknown strategy", err)
	}
}

func TestWriteAnalysisReport(t *testing.T) {
	setupTestConfig(t)

	store := results.NewStore(config.ResultsDir)
	rec := results.NewRecord("q1", "easy", "beam", "what is beam search")
	rec.ExecutionTime = 1.5
	rec.Success = true
	rec.StepsTaken = 3
	rec.FinalAnswer = "beam search keeps the k best states"
	rec.EvaluationScore = 7.0
	if _, err := store.Write(rec); err != nil {
		t.Fatalf("seeding record: %v", err)
	}

	if err := writeAnalysisReport(store); err != nil {
		t.Fatalf("writeAnalysisReport: %v", err)
	}
	if _, err := os.Stat(config.AnalysisPath); err != nil {
		t.Errorf("analysis file not written: %v", err)
	}
}

func TestWriteAnalysisReport_NoRecords(t *testing.T) {
	setupTestConfig(t)

	store := results.NewStore(config.ResultsDir)
	if err := writeAnalysisReport(store); err != nil {
		t.Fatalf("writeAnalysisReport with no records: %v", err)
	}
}

func TestLoadRetriever_MissingKnowledgeDir(t *testing.T) {
	setupTestConfig(t)

	if retrieve := loadRetriever(); retrieve != nil {
		t.Error("expected a nil retriever for a missing knowledge dir")
	}
}

func TestNewBackendClient_UnknownBackend(t *testing.T) {
	setupTestConfig(t)

	if _, err := newBackendClient("mainframe"); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}
