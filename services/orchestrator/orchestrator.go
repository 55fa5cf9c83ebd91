// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package orchestrator provides the HTTP service for tree-of-thought
// passage solving and strategy-driven search.
//
// The orchestrator wires together the LLM client layer, the solver, and
// the search strategies behind a Gin router, with OpenTelemetry tracing
// and Prometheus metrics.
//
// # Usage
//
//	cfg := orchestrator.Config{Port: 12210, LLMBackend: "ollama"}
//	svc, err := orchestrator.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AleutianSearch/services/llm"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianSearch/services/orchestrator/routes"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the orchestrator service.
//
// # Description
//
// Service abstracts the orchestrator lifecycle, enabling testing and
// alternative implementations. Run() blocks and should only be called
// once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	//
	// Callers must not modify the router after construction.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds orchestrator configuration options.
//
// # Description
//
// Config centralizes all configuration for the orchestrator service.
// Values can be populated from environment variables, config files,
// or programmatically for testing. All fields are optional with
// defaults applied by New().
//
// # Examples
//
//	// Minimal config (uses all defaults)
//	cfg := Config{}
//
//	// Custom port and LLM backend
//	cfg := Config{
//	    Port:       8080,
//	    LLMBackend: "anthropic",
//	}
type Config struct {
	// Port is the HTTP server port. Default: 12210
	Port int `validate:"min=1,max=65535"`

	// LLMBackend specifies the LLM provider.
	// Valid values: "openai", "openrouter", "ollama", "langchain", "anthropic"
	// Default: "ollama"
	LLMBackend string `validate:"oneof=openai openrouter ollama langchain anthropic"`

	// OTelEndpoint is an optional OpenTelemetry collector endpoint.
	// When empty, spans are written to stdout so local runs still
	// have traces.
	// Example: "otel-collector:4317"
	OTelEndpoint string

	// RequestsPerSecond throttles calls to the LLM backend.
	// Zero disables rate limiting.
	RequestsPerSecond float64 `validate:"min=0"`

	// Burst is the rate limiter burst size. Only used when
	// RequestsPerSecond is positive. Default: 1
	Burst int `validate:"min=0"`

	// EnableMetrics enables the Prometheus metrics registry.
	// Default: true
	EnableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "", "debug", "release", "test"
	GinMode string `validate:"omitempty,oneof=debug release test"`
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	router        *gin.Engine
	llmClient     llm.LLMClient
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new orchestrator Service with the given configuration.
//
// # Description
//
// New initializes all orchestrator components:
//  1. Applies default configuration for missing values
//  2. Validates the resulting configuration
//  3. Initializes OpenTelemetry tracing
//  4. Initializes Prometheus metrics
//  5. Creates the LLM client (rate limited when configured)
//  6. Sets up HTTP routes
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: Ready-to-run orchestrator service
//   - error: Non-nil if validation or initialization fails
//
// # Assumptions
//
//   - Environment variables are set for the chosen LLM provider
//     (API keys, base URLs)
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if err := validator.New().Struct(s.config); err != nil {
		return nil, fmt.Errorf("invalid orchestrator config: %w", err)
	}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	if s.config.EnableMetrics && observability.DefaultMetrics == nil {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for search")
	}

	if err := s.initLLMClient(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting search orchestrator server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12210
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "ollama"
	}
	if cfg.Burst == 0 {
		cfg.Burst = 1
	}
	// Metrics stay on unless a future setter disables them explicitly.
	cfg.EnableMetrics = true

	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Description
//
// With OTelEndpoint set, spans are exported to a collector over gRPC.
// Otherwise a pretty-printed stdout exporter is used.
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown
//   - error: Non-nil if tracer setup fails
//
// # Limitations
//
//   - Uses insecure gRPC connection (appropriate for internal networks)
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	var traceExporter sdktrace.SpanExporter
	if s.config.OTelEndpoint != "" {
		conn, err := grpc.NewClient(s.config.OTelEndpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}
		traceExporter, err = otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
	} else {
		var err error
		traceExporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("search-orchestrator")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown trace exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initLLMClient initializes the LLM provider client.
//
// Hosted backends get throttled when RequestsPerSecond is set.
func (s *service) initLLMClient() error {
	client, err := llm.NewClient(s.config.LLMBackend)
	if err != nil {
		return err
	}
	slog.Info("Using LLM backend", "backend", s.config.LLMBackend)

	if s.config.RequestsPerSecond > 0 {
		client = llm.NewRateLimitedClient(client, s.config.RequestsPerSecond, s.config.Burst)
		slog.Info("LLM rate limiting enabled",
			"requests_per_second", s.config.RequestsPerSecond,
			"burst", s.config.Burst)
	}

	s.llmClient = client
	return nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("search-orchestrator"))

	routes.SetupRoutes(s.router, s.llmClient)
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
