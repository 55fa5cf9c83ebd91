// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command orchestrator starts the search orchestrator HTTP server.
//
// This is the main entry point for the containerized orchestrator service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - ORCHESTRATOR_PORT: HTTP server port (default: 12210)
//   - LLM_BACKEND_TYPE: LLM provider - openai, openrouter, ollama, langchain, anthropic (default: ollama)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (optional, stdout when unset)
//   - LLM_REQUESTS_PER_SECOND: rate limit on LLM calls (default: 0, disabled)
//   - LLM_BURST: rate limiter burst size (default: 1)
//
// # Usage
//
//	# Build
//	go build -o orchestrator ./cmd/orchestrator
//
//	# Run
//	./orchestrator
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/AleutianAI/AleutianSearch/services/orchestrator"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := orchestrator.Config{
		Port:              getEnvInt("ORCHESTRATOR_PORT", 12210),
		LLMBackend:        getEnvString("LLM_BACKEND_TYPE", "ollama"),
		OTelEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		RequestsPerSecond: getEnvFloat("LLM_REQUESTS_PER_SECOND", 0),
		Burst:             getEnvInt("LLM_BURST", 1),
	}

	slog.Info("Starting search orchestrator",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
	)

	svc, err := orchestrator.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create orchestrator: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Orchestrator error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
