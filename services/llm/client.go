// Package llm provides backend clients for the external text generation
// and scoring service consumed by the Tree-of-Thought solver.
package llm

import (
	"context"
	"fmt"
	"strings"
)

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend.
//
// Generate blocks until the external service responds. Cancellation and
// timeouts come from ctx and from the backend's own HTTP client; no other
// mechanism exists.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// NewClient constructs the backend named by backendType: openai,
// openrouter, ollama, langchain, or anthropic. Unknown types fail fast; this is a
// configuration error.
func NewClient(backendType string) (LLMClient, error) {
	switch strings.ToLower(backendType) {
	case "openai":
		return NewOpenAIClient()
	case "openrouter":
		return NewOpenRouterClient()
	case "ollama":
		return NewOllamaClient()
	case "langchain":
		return NewLangchainClient()
	case "anthropic":
		return NewAnthropicClient()
	default:
		return nil, fmt.Errorf("unknown LLM backend type: %s (available: openai, openrouter, ollama, langchain)", backendType)
	}
}
