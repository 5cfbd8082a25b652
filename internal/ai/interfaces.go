package ai

import (
	"context"
)

// CompletionProvider turns a prompt into a JSON object completion
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
	Info() ModelInfo
	Stats() map[string]any
	Close() error
}

// EmbeddingProvider turns text into a dense vector
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Info() ModelInfo
	Stats() map[string]any
	Close() error
}

// Completion is the raw text of a model response
type Completion struct {
	Text  string
	Usage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo identifies the model serving an operation
type ModelInfo struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Operation string `json:"operation"`
}
