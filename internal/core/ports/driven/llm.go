package driven

import (
	"context"
	"time"
)

// LLMService is the external generation capability: an opaque
// prompt-to-text call. Failures are classified via domain.GenerationError
// so the search service can decide what to retry.
//
// Implementations may include:
//   - Groq (llama family, OpenAI-compatible API)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a text completion from a prompt. The call is
	// bounded by opts.Timeout; on expiry it returns a GenerationError
	// of kind timeout.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// Timeout bounds the generation call. Zero means the adapter default.
	Timeout time.Duration
}
