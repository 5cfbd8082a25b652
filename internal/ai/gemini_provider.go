package ai

import (
	"context"
	"net/http"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// GeminiCompleter implements CompletionProvider with schema-constrained
// JSON generation
type GeminiCompleter struct {
	client    *genai.Client
	config    *config.OperationAIConfig
	operation string
	schema    *genai.Schema
	breaker   *CircuitBreaker[*genai.GenerateContentResponse]
	logger    *errors.Logger
}

// GeminiEmbedder implements EmbeddingProvider with EmbedContent
type GeminiEmbedder struct {
	client    *genai.Client
	config    *config.OperationAIConfig
	operation string
	breaker   *CircuitBreaker[*genai.EmbedContentResponse]
	logger    *errors.Logger
}

var (
	_ CompletionProvider = (*GeminiCompleter)(nil)
	_ EmbeddingProvider  = (*GeminiEmbedder)(nil)
)

// SkillsResponseSchema constrains a completion to {"skills": [string]}
func SkillsResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"skills": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"skills"},
	}
}

func newGeminiClient(ctx context.Context, cfg *config.OperationAIConfig) (*genai.Client, error) {
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	if cfg.Timeout != nil {
		httpClient.Timeout = *cfg.Timeout
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create Gemini client", err)
	}
	return client, nil
}

// NewGeminiCompleter creates a Gemini completion provider for one operation.
// schema may be nil for free-form JSON.
func NewGeminiCompleter(ctx context.Context, cfg *config.OperationAIConfig, operation string, schema *genai.Schema, logger *errors.Logger) (*GeminiCompleter, error) {
	client, err := newGeminiClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiCompleter{
		client:    client,
		config:    cfg,
		operation: operation,
		schema:    schema,
		breaker:   NewCircuitBreaker[*genai.GenerateContentResponse](operation, cfg, logger),
		logger:    logger,
	}, nil
}

// Complete implements CompletionProvider
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (*Completion, error) {
	ctx, span := otel.Tracer("resumatch.ai.gemini").Start(ctx, "gemini."+g.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderGemini),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("input.prompt_length", len(prompt)),
	)

	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   g.schema,
		Temperature:      g.config.Temperature,
	}

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return executeWithRetry(ctx, g.logger, g.operation, maxRetries(g.config), func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate content for "+g.operation, err)
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))

	return &Completion{Text: result.Text(), Usage: usage}, nil
}

// Info implements CompletionProvider
func (g *GeminiCompleter) Info() ModelInfo {
	return ModelInfo{Provider: config.ProviderGemini, Model: g.config.Model, Operation: g.operation}
}

// Stats returns circuit breaker statistics
func (g *GeminiCompleter) Stats() map[string]any {
	return g.breaker.GetStats()
}

// Close implements CompletionProvider
func (g *GeminiCompleter) Close() error {
	// genai clients hold no connections outside of streaming
	return nil
}

// NewGeminiEmbedder creates a Gemini embedding provider for one operation
func NewGeminiEmbedder(ctx context.Context, cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*GeminiEmbedder, error) {
	client, err := newGeminiClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiEmbedder{
		client:    client,
		config:    cfg,
		operation: operation,
		breaker:   NewCircuitBreaker[*genai.EmbedContentResponse](operation, cfg, logger),
		logger:    logger,
	}, nil
}

// Embed implements EmbeddingProvider
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, span := otel.Tracer("resumatch.ai.gemini").Start(ctx, "gemini."+g.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderGemini),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("input.text_length", len(text)),
	)

	resp, err := g.breaker.Execute(func() (*genai.EmbedContentResponse, error) {
		return executeWithRetry(ctx, g.logger, g.operation, maxRetries(g.config), func() (*genai.EmbedContentResponse, error) {
			return g.client.Models.EmbedContent(ctx, g.config.Model, genai.Text(text), nil)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "Gemini embedding failed", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "Gemini returned no embedding values", nil)
	}

	values := resp.Embeddings[0].Values
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}

	span.SetAttributes(
		attribute.Int("output.dimensions", len(vector)),
		attribute.Bool("success", true),
	)
	return vector, nil
}

// Info implements EmbeddingProvider
func (g *GeminiEmbedder) Info() ModelInfo {
	return ModelInfo{Provider: config.ProviderGemini, Model: g.config.Model, Operation: g.operation}
}

// Stats returns circuit breaker statistics
func (g *GeminiEmbedder) Stats() map[string]any {
	return g.breaker.GetStats()
}

// Close implements EmbeddingProvider
func (g *GeminiEmbedder) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
