package ai

import (
	"context"
	"net/http"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OpenAICompleter implements CompletionProvider with chat completions in
// JSON object mode
type OpenAICompleter struct {
	client    openai.Client
	config    *config.OperationAIConfig
	operation string
	breaker   *CircuitBreaker[*openai.ChatCompletion]
	logger    *errors.Logger
}

// OpenAIEmbedder implements EmbeddingProvider with the embeddings endpoint
type OpenAIEmbedder struct {
	client    openai.Client
	config    *config.OperationAIConfig
	operation string
	breaker   *CircuitBreaker[*openai.CreateEmbeddingResponse]
	logger    *errors.Logger
}

var (
	_ CompletionProvider = (*OpenAICompleter)(nil)
	_ EmbeddingProvider  = (*OpenAIEmbedder)(nil)
)

// newOpenAIClient builds a client whose retries are left to executeWithRetry
func newOpenAIClient(cfg *config.OperationAIConfig) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	}
	if cfg.Timeout != nil && *cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(*cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return openai.NewClient(opts...)
}

// NewOpenAICompleter creates an OpenAI completion provider for one operation
func NewOpenAICompleter(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) *OpenAICompleter {
	return &OpenAICompleter{
		client:    newOpenAIClient(cfg),
		config:    cfg,
		operation: operation,
		breaker:   NewCircuitBreaker[*openai.ChatCompletion](operation, cfg, logger),
		logger:    logger,
	}
}

// Complete implements CompletionProvider
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (*Completion, error) {
	ctx, span := otel.Tracer("resumatch.ai.openai").Start(ctx, "openai."+o.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderOpenAI),
		attribute.String("ai.model", o.config.Model),
		attribute.Int("input.prompt_length", len(prompt)),
	)

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(o.config.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
	}
	if o.config.Temperature != nil {
		params.Temperature = openai.Float(float64(*o.config.Temperature))
	}

	completion, err := o.breaker.Execute(func() (*openai.ChatCompletion, error) {
		return executeWithRetry(ctx, o.logger, o.operation, maxRetries(o.config), func() (*openai.ChatCompletion, error) {
			return o.client.Chat.Completions.New(ctx, params)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "OpenAI completion failed for "+o.operation, err)
	}
	if len(completion.Choices) == 0 {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "OpenAI returned no choices for "+o.operation, nil)
	}

	usage := &TokenUsage{
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
		TotalTokens:  completion.Usage.TotalTokens,
	}
	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
		attribute.Bool("success", true),
	)

	return &Completion{Text: completion.Choices[0].Message.Content, Usage: usage}, nil
}

// Info implements CompletionProvider
func (o *OpenAICompleter) Info() ModelInfo {
	return ModelInfo{Provider: config.ProviderOpenAI, Model: o.config.Model, Operation: o.operation}
}

// Stats returns circuit breaker statistics
func (o *OpenAICompleter) Stats() map[string]any {
	return o.breaker.GetStats()
}

// Close implements CompletionProvider
func (o *OpenAICompleter) Close() error {
	return nil
}

// NewOpenAIEmbedder creates an OpenAI embedding provider for one operation
func NewOpenAIEmbedder(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:    newOpenAIClient(cfg),
		config:    cfg,
		operation: operation,
		breaker:   NewCircuitBreaker[*openai.CreateEmbeddingResponse](operation, cfg, logger),
		logger:    logger,
	}
}

// Embed implements EmbeddingProvider
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, span := otel.Tracer("resumatch.ai.openai").Start(ctx, "openai."+o.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderOpenAI),
		attribute.String("ai.model", o.config.Model),
		attribute.Int("input.text_length", len(text)),
	)

	resp, err := o.breaker.Execute(func() (*openai.CreateEmbeddingResponse, error) {
		return executeWithRetry(ctx, o.logger, o.operation, maxRetries(o.config), func() (*openai.CreateEmbeddingResponse, error) {
			return o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
				Input: openai.EmbeddingNewParamsInputUnion{
					OfArrayOfStrings: []string{text},
				},
				Model: openai.EmbeddingModel(o.config.Model),
			})
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "OpenAI embedding failed", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "OpenAI returned no embedding data", nil)
	}

	span.SetAttributes(
		attribute.Int("output.dimensions", len(resp.Data[0].Embedding)),
		attribute.Int64("ai.tokens.input", resp.Usage.PromptTokens),
		attribute.Bool("success", true),
	)
	return resp.Data[0].Embedding, nil
}

// Info implements EmbeddingProvider
func (o *OpenAIEmbedder) Info() ModelInfo {
	return ModelInfo{Provider: config.ProviderOpenAI, Model: o.config.Model, Operation: o.operation}
}

// Stats returns circuit breaker statistics
func (o *OpenAIEmbedder) Stats() map[string]any {
	return o.breaker.GetStats()
}

// Close implements EmbeddingProvider
func (o *OpenAIEmbedder) Close() error {
	return nil
}

func maxRetries(cfg *config.OperationAIConfig) int {
	if cfg.MaxRetries == nil || *cfg.MaxRetries < 0 {
		return 0
	}
	return *cfg.MaxRetries
}
