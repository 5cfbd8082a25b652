package ai

import (
	"context"
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/errors"
)

// Operation names used for breakers, spans and metrics
const (
	OperationExtraction = "extraction"
	OperationEmbedding  = "embedding"
)

// NewCompletionProvider creates the provider configured for skill extraction
func NewCompletionProvider(ctx context.Context, cfg *config.OperationAIConfig, logger *errors.Logger) (CompletionProvider, error) {
	logger.Debug("Initializing AI provider",
		"provider", cfg.Provider,
		"operation_type", OperationExtraction,
		"model", cfg.Model,
		"max_retries", maxRetries(cfg))

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAICompleter(cfg, OperationExtraction, logger), nil
	case config.ProviderGemini:
		provider, err := NewGeminiCompleter(ctx, cfg, OperationExtraction, SkillsResponseSchema(), logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}

// NewEmbeddingProvider creates the provider configured for embeddings
func NewEmbeddingProvider(ctx context.Context, cfg *config.OperationAIConfig, logger *errors.Logger) (EmbeddingProvider, error) {
	logger.Debug("Initializing AI provider",
		"provider", cfg.Provider,
		"operation_type", OperationEmbedding,
		"model", cfg.Model,
		"max_retries", maxRetries(cfg))

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIEmbedder(cfg, OperationEmbedding, logger), nil
	case config.ProviderGemini:
		provider, err := NewGeminiEmbedder(ctx, cfg, OperationEmbedding, logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}
