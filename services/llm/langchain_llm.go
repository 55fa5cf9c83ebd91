package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// LangchainClient wraps a langchaingo model behind the LLMClient
// interface. It currently targets an Ollama server, which covers the
// same local deployments as OllamaClient but exercises the langchaingo
// call options instead of raw HTTP.
type LangchainClient struct {
	model llms.Model
	name  string
}

func NewLangchainClient() (*LangchainClient, error) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	modelName := os.Getenv("OLLAMA_MODEL")
	if baseURL == "" {
		return nil, fmt.Errorf("OLLAMA_BASE_URL environment variable not set")
	}
	if modelName == "" {
		slog.Warn("OLLAMA_MODEL not set, default gpt-oss")
		modelName = "gpt-oss"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	model, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build langchaingo ollama model: %w", err)
	}
	slog.Info("Initializing langchaingo client", "base_url", baseURL, "model", modelName)
	return &LangchainClient{model: model, name: modelName}, nil
}

// Generate implements the LLMClient interface
func (l *LangchainClient) Generate(ctx context.Context, prompt string,
	params GenerationParams) (string, error) {

	opts := []llms.CallOption{}
	if params.Temperature != nil {
		opts = append(opts, llms.WithTemperature(float64(*params.Temperature)))
	}
	if params.TopP != nil {
		opts = append(opts, llms.WithTopP(float64(*params.TopP)))
	}
	if params.MaxTokens != nil {
		opts = append(opts, llms.WithMaxTokens(*params.MaxTokens))
	}
	if len(params.Stop) > 0 {
		opts = append(opts, llms.WithStopWords(params.Stop))
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt, opts...)
	if err != nil {
		slog.Error("langchaingo generation failed", "model", l.name, "error", err)
		return "", fmt.Errorf("langchaingo generation failed: %w", err)
	}
	return completion, nil
}
