package llm

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

// RateLimitedClient throttles calls to an underlying LLMClient. Hosted
// backends (OpenAI, OpenRouter) enforce per-minute request caps, and a
// search run can issue hundreds of generate/evaluate calls back to
// back, so the limiter blocks until a token is available rather than
// failing fast.
type RateLimitedClient struct {
	inner   LLMClient
	limiter *rate.Limiter
}

// NewRateLimitedClient wraps inner with a token bucket allowing
// requestsPerSecond sustained throughput and burst immediate calls.
func NewRateLimitedClient(inner LLMClient, requestsPerSecond float64, burst int) *RateLimitedClient {
	if burst < 1 {
		burst = 1
	}
	slog.Info("Rate limiting LLM client", "requests_per_second", requestsPerSecond, "burst", burst)
	return &RateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Generate implements the LLMClient interface
func (r *RateLimitedClient) Generate(ctx context.Context, prompt string,
	params GenerationParams) (string, error) {

	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}
	return r.inner.Generate(ctx, prompt, params)
}
