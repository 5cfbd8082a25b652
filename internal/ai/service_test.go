package ai

import (
	"context"
	"testing"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvidersByName(t *testing.T) {
	timeout := time.Second
	openaiCfg := &config.OperationAIConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk", Timeout: &timeout}
	geminiCfg := &config.OperationAIConfig{Provider: config.ProviderGemini, Model: "text-embedding-004", APIKey: "g", Timeout: &timeout}

	completer, err := NewCompletionProvider(context.Background(), openaiCfg, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompleter{}, completer)

	embedder, err := NewEmbeddingProvider(context.Background(), geminiCfg, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &GeminiEmbedder{}, embedder)
	assert.Equal(t, map[string]any{"enabled": false}, embedder.Stats())
}

func TestNewProviderUnsupported(t *testing.T) {
	cfg := &config.OperationAIConfig{Provider: "anthropic"}

	_, err := NewCompletionProvider(context.Background(), cfg, testLogger())
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))

	_, err = NewEmbeddingProvider(context.Background(), cfg, testLogger())
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
}
