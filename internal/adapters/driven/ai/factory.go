// Package ai builds the configured embedding and generation adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/corpora-labs/corpora-cli/internal/adapters/driven/llm/anthropic"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/corpora-labs/corpora-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/corpora-labs/corpora-cli/internal/adapters/driven/llm/openai"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding adapter the config names.
// An empty provider selects Ollama so a fresh install works without keys.
func CreateEmbeddingService(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     os.Getenv(cfg.APIKeyEnv),
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case "", "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// CreateLLMService creates the generation adapter the config names.
func CreateLLMService(cfg file.LLMConfig, timeout time.Duration) (driven.LLMService, error) {
	switch cfg.Provider {
	case "groq":
		return groq.NewLLMService(groq.Config{
			APIKey:            os.Getenv(cfg.APIKeyEnv),
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Timeout:           timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  os.Getenv(cfg.APIKeyEnv),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
	case "anthropic":
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  os.Getenv(cfg.APIKeyEnv),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
	case "", "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding adapter and
// confirms the provider is reachable before handing it out.
func CreateAndValidateEmbeddingService(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("embedding service unreachable: %w", err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates a generation adapter and confirms
// the provider is reachable before handing it out.
func CreateAndValidateLLMService(cfg file.LLMConfig, timeout time.Duration) (driven.LLMService, error) {
	svc, err := CreateLLMService(cfg, timeout)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("llm service unreachable: %w", err)
	}
	return svc, nil
}
