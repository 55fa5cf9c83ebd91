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
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianSearch/pkg/logging"
	"github.com/AleutianAI/AleutianSearch/pkg/ux"
	"github.com/AleutianAI/AleutianSearch/services/llm"
)

// Config is the optional alsearch.yaml configuration. Every field has a
// working default so the CLI runs from a bare checkout.
type Config struct {
	// Backend selects the LLM provider: openai, openrouter, ollama,
	// langchain, or anthropic.
	Backend string `yaml:"backend"`

	QueriesPath  string `yaml:"queries_path"`
	KnowledgeDir string `yaml:"knowledge_dir"`
	PassagesPath string `yaml:"passages_path"`

	ResultsDir   string `yaml:"results_dir"`
	ArchiveDir   string `yaml:"archive_dir"`
	AnalysisPath string `yaml:"analysis_path"`

	// GoalKeyword, when set, must appear in an answer before the goal
	// predicate accepts it.
	GoalKeyword string `yaml:"goal_keyword"`

	// RequestsPerSecond throttles LLM calls. Zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// LogDir enables file logging alongside stderr when set.
	LogDir string `yaml:"log_dir"`
}

func defaultConfig() Config {
	return Config{
		Backend:      "ollama",
		QueriesPath:  "test/queries.json",
		KnowledgeDir: "data",
		PassagesPath: "data/data.txt",
		ResultsDir:   "test/results",
		ArchiveDir:   "test/results_archive",
		AnalysisPath: "test/analysis/analysis_results/comparative_analysis_result.json",
		Burst:        1,
	}
}

var (
	config      Config
	configPath  string
	personality string

	appLogger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "alsearch",
		Short: "Benchmark LLM-guided tree search strategies",
		Long: `Alsearch runs a passage-generation benchmark over pluggable tree
search strategies (bfs, dfs, beam, best_first, astar, mcts), records
per-query results, and compares strategies against each other.`,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "alsearch.yaml",
		"Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&personality, "personality", "",
		"Output personality: full, standard, minimal, or machine")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		config = defaultConfig()
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &config); err != nil {
				slog.Error("Failed to parse config file", "path", configPath, "error", err)
				os.Exit(1)
			}
		case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
			// No config file is fine, defaults apply.
		default:
			slog.Error("Failed to read config file", "path", configPath, "error", err)
			os.Exit(1)
		}

		appLogger = logging.New(logging.Config{Service: "alsearch", LogDir: config.LogDir})
		slog.SetDefault(appLogger.Slog())

		ux.InitPersonality()
		if personality != "" {
			ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personality))
		}
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Close()
		}
	}

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runProfile, "profile", "",
		"Limit the run to one tier (easy, smoke, stress)")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "",
		"Limit the run to one strategy")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false,
		"List the query x strategy matrix without running it")
	runCmd.Flags().BoolVar(&runAnalysis, "analysis", false,
		"Run comparative analysis after the matrix completes")
	runCmd.Flags().BoolVar(&runCleanResults, "clean-results", false,
		"Clean the results directory before running")
	runCmd.Flags().IntVar(&runNGenerate, "n-generate", 3,
		"Candidates requested per generation call")
	runCmd.Flags().IntVar(&runNEvaluate, "n-evaluate", 3,
		"Evaluation samples per candidate")

	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&demoStrategy, "strategy", "",
		"Search strategy to demo; empty runs the fixed-round solver")
	demoCmd.Flags().IntVar(&demoSteps, "steps", 2, "Search steps")
	demoCmd.Flags().IntVar(&demoNGenerate, "n-generate", 3,
		"Candidates requested per generation call")
	demoCmd.Flags().IntVar(&demoNEvaluate, "n-evaluate", 2,
		"Evaluation samples per candidate")
	demoCmd.Flags().BoolVar(&demoUseCoT, "use-cot", true,
		"Ask for step-by-step reasoning before each passage")

	rootCmd.AddCommand(analyzeCmd)

	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsSummaryCmd)
	resultsCmd.AddCommand(resultsArchiveCmd)
	resultsCmd.AddCommand(resultsCleanCmd)
	resultsCleanCmd.Flags().Bool("force", false,
		"Required to confirm deletion of the results directory")

	rootCmd.AddCommand(modelsCmd)
}

// newBackendClient builds the configured LLM client, throttled when the
// config asks for it.
func newBackendClient(backend string) (llm.LLMClient, error) {
	client, err := llm.NewClient(backend)
	if err != nil {
		return nil, err
	}
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		return llm.NewRateLimitedClient(client, config.RequestsPerSecond, burst), nil
	}
	return client, nil
}
