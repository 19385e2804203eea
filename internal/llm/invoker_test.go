package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
}

func TestFromEnvNoProvider(t *testing.T) {
	clearProviderEnv(t)

	_, err := FromEnv(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider configured")
}

func TestFromEnvUnknownProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "acme")

	_, err := FromEnv(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme")
}

func TestFromEnvExplicitSelection(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "test-key")

	inv, err := FromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "openai", inv.Name())
}

func TestFromEnvExplicitSelectionMissingKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "anthropic")

	_, err := FromEnv(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestFromEnvProbesAnthropicFirst(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	inv, err := FromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anthropic", inv.Name())
}

func TestDefaultMaxTokensFromEnv(t *testing.T) {
	t.Setenv("DEFAULT_MAX_TOKENS", "")
	assert.Zero(t, defaultMaxTokensFromEnv())

	t.Setenv("DEFAULT_MAX_TOKENS", "2048")
	assert.Equal(t, 2048, defaultMaxTokensFromEnv())

	t.Setenv("DEFAULT_MAX_TOKENS", "not-a-number")
	assert.Zero(t, defaultMaxTokensFromEnv())

	t.Setenv("DEFAULT_MAX_TOKENS", "-5")
	assert.Zero(t, defaultMaxTokensFromEnv())
}
