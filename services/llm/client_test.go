package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_UnknownBackend(t *testing.T) {
	// Arrange & Act
	client, err := NewClient("gpt4all")

	// Assert
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "gpt4all")
}

func TestNewClient_OllamaRequiresBaseURL(t *testing.T) {
	// Arrange
	t.Setenv("OLLAMA_BASE_URL", "")

	// Act
	client, err := NewClient("ollama")

	// Assert
	require.Error(t, err)
	assert.Nil(t, client)
}

func TestNewClient_CaseInsensitive(t *testing.T) {
	// Arrange
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434")
	t.Setenv("OLLAMA_MODEL", "gpt-oss")

	// Act
	client, err := NewClient("OLLAMA")

	// Assert
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, client)
}

type recordingClient struct {
	prompts []string
	reply   string
}

func (r *recordingClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	r.prompts = append(r.prompts, prompt)
	return r.reply, nil
}

func TestRateLimitedClient_PassesThrough(t *testing.T) {
	// Arrange
	inner := &recordingClient{reply: "42"}
	client := NewRateLimitedClient(inner, 100, 10)

	// Act
	out, err := client.Generate(context.Background(), "what is six times seven?", GenerationParams{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "42", out)
	assert.Equal(t, []string{"what is six times seven?"}, inner.prompts)
}

func TestRateLimitedClient_CancelledContext(t *testing.T) {
	// Arrange: zero sustained rate so the second call must wait forever.
	inner := &recordingClient{reply: "ok"}
	client := NewRateLimitedClient(inner, 0, 1)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := client.Generate(ctx, "first", GenerationParams{})
	require.NoError(t, err)
	cancel()

	// Act
	_, err = client.Generate(ctx, "second", GenerationParams{})

	// Assert
	require.Error(t, err)
	assert.Len(t, inner.prompts, 1, "inner client must not be called after cancellation")
}
