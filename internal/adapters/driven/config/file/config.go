// Package file provides TOML-backed configuration for the CLI.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultConfigName = "config.toml"
	DefaultDepth      = "standard"
)

// Config is the typed application configuration.
type Config struct {
	Collection CollectionConfig `toml:"collection"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	LLM        LLMConfig        `toml:"llm"`
	Search     SearchConfig     `toml:"search"`
}

// CollectionConfig describes the managed document collection.
type CollectionConfig struct {
	// Paths are the files and directories swept into the index.
	Paths []string `toml:"paths"`

	// DataDir holds the metadata database (default: ~/.corpora/data).
	DataDir string `toml:"data_dir"`

	// SweepOnSearch runs a freshness sweep before each search.
	SweepOnSearch bool `toml:"sweep_on_search"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama" (default: ollama).
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// (default: OPENAI_API_KEY). Keys never live in the config file.
	APIKeyEnv string `toml:"api_key_env"`

	// Dimensions overrides the embedding vector size.
	Dimensions int `toml:"dimensions"`
}

// LLMConfig selects and configures the generation provider.
type LLMConfig struct {
	// Provider is "groq", "openai", "anthropic" or "ollama"
	// (default: ollama).
	Provider string `toml:"provider"`

	// Model is the chat model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// (default: GROQ_API_KEY).
	APIKeyEnv string `toml:"api_key_env"`

	// TimeoutSeconds bounds one generation call (default: 120).
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerMinute throttles calls client-side.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// SearchConfig holds retrieval defaults.
type SearchConfig struct {
	// Depth is the default analysis depth (default: standard).
	Depth string `toml:"depth"`

	// ContextBudget caps the assembled context, in characters.
	ContextBudget int `toml:"context_budget"`

	// MaxRetries bounds generation retries.
	MaxRetries int `toml:"max_retries"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		LLM: LLMConfig{
			Provider:       "ollama",
			APIKeyEnv:      "GROQ_API_KEY",
			TimeoutSeconds: 120,
		},
		Search: SearchConfig{
			Depth: DefaultDepth,
		},
	}
}

// Load reads the config file at path, applying defaults for anything
// unset. A missing file yields the defaults. If path is empty it
// defaults to ~/.corpora/config.toml.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".corpora", DefaultConfigName)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path with restricted permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LLMTimeout returns the configured generation timeout.
func (c *Config) LLMTimeout() time.Duration {
	if c.LLM.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}
