package ai

import (
	"fmt"
	"os"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/config/file"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Providers that need an API key from the environment.
var keyedProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"groq":      true,
}

// ValidateConfig checks a configuration for problems that would only
// surface later as confusing provider errors: unknown provider names,
// missing API keys and malformed search settings.
func ValidateConfig(cfg *file.Config) error {
	if err := validateEmbedding(cfg.Embedding); err != nil {
		return err
	}
	if err := validateLLM(cfg.LLM); err != nil {
		return err
	}
	return validateSearch(cfg.Search)
}

func validateEmbedding(cfg file.EmbeddingConfig) error {
	switch cfg.Provider {
	case "", "ollama", "openai":
	default:
		return fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
	if cfg.Dimensions < 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", cfg.Dimensions)
	}
	return requireKey(cfg.Provider, cfg.APIKeyEnv)
}

func validateLLM(cfg file.LLMConfig) error {
	switch cfg.Provider {
	case "", "ollama", "groq", "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("llm timeout must be positive, got %d", cfg.TimeoutSeconds)
	}
	if cfg.RequestsPerMinute < 0 {
		return fmt.Errorf("llm requests per minute must be positive, got %d", cfg.RequestsPerMinute)
	}
	return requireKey(cfg.Provider, cfg.APIKeyEnv)
}

func validateSearch(cfg file.SearchConfig) error {
	if cfg.Depth != "" && !domain.AnalysisDepth(cfg.Depth).Valid() {
		return fmt.Errorf("unknown search depth: %s", cfg.Depth)
	}
	if cfg.ContextBudget < 0 {
		return fmt.Errorf("context budget must be positive, got %d", cfg.ContextBudget)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max retries must be positive, got %d", cfg.MaxRetries)
	}
	return nil
}

func requireKey(provider, keyEnv string) error {
	if !keyedProviders[provider] {
		return nil
	}
	if keyEnv == "" {
		return fmt.Errorf("provider %s needs api_key_env set in the config", provider)
	}
	if os.Getenv(keyEnv) == "" {
		return fmt.Errorf("provider %s needs %s set in the environment", provider, keyEnv)
	}
	return nil
}
