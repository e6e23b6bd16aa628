package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/config/file"
)

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	require.NoError(t, ValidateConfig(file.Default()))
}

func TestValidateConfigRejectsUnknownProviders(t *testing.T) {
	cfg := file.Default()
	cfg.Embedding.Provider = "cohere"
	require.ErrorContains(t, ValidateConfig(cfg), "unsupported embedding provider")

	cfg = file.Default()
	cfg.LLM.Provider = "bedrock"
	require.ErrorContains(t, ValidateConfig(cfg), "unsupported llm provider")
}

func TestValidateConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("TEST_GROQ_KEY", "")

	cfg := file.Default()
	cfg.LLM.Provider = "groq"
	cfg.LLM.APIKeyEnv = "TEST_GROQ_KEY"
	require.ErrorContains(t, ValidateConfig(cfg), "TEST_GROQ_KEY")

	t.Setenv("TEST_GROQ_KEY", "gsk-test")
	require.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigRequiresKeyEnvName(t *testing.T) {
	cfg := file.Default()
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.APIKeyEnv = ""
	require.ErrorContains(t, ValidateConfig(cfg), "api_key_env")
}

func TestValidateConfigRejectsBadSearchSettings(t *testing.T) {
	cfg := file.Default()
	cfg.Search.Depth = "exhaustive"
	require.ErrorContains(t, ValidateConfig(cfg), "unknown search depth")

	cfg = file.Default()
	cfg.Search.ContextBudget = -1
	require.ErrorContains(t, ValidateConfig(cfg), "context budget")

	cfg = file.Default()
	cfg.Search.MaxRetries = -2
	require.ErrorContains(t, ValidateConfig(cfg), "max retries")
}
