package observability

import (
	"context"
	"fmt"
	"time"

	"resumatch/internal/ai"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds the custom instruments of the evaluation pipeline
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	Evaluations         metric.Int64Counter
	FinalScore          metric.Float64Histogram
	DegradedExtractions metric.Int64Counter
	RateLimitHits       metric.Int64Counter
	CertificateReloads  metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"resumatch_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	if m.AIRequestCount, err = meter.Int64Counter(
		"resumatch_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	if m.AIErrorCount, err = meter.Int64Counter(
		"resumatch_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"resumatch_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.Evaluations, err = meter.Int64Counter(
		"resumatch_evaluations_total",
		metric.WithDescription("Total number of résumé evaluations by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create evaluations metric: %w", err)
	}

	if m.FinalScore, err = meter.Float64Histogram(
		"resumatch_final_score",
		metric.WithDescription("Distribution of final evaluation scores"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create final score metric: %w", err)
	}

	if m.DegradedExtractions, err = meter.Int64Counter(
		"resumatch_skill_extraction_degraded_total",
		metric.WithDescription("Evaluations that continued with an empty skill list"),
	); err != nil {
		return nil, fmt.Errorf("failed to create degraded extraction metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumatch_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	if m.CertificateReloads, err = meter.Int64Counter(
		"resumatch_cert_reloads_total",
		metric.WithDescription("Total number of certificate reloads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create certificate reload metric: %w", err)
	}

	return m, nil
}

// RecordAIOperation records duration, outcome and token usage of one provider call
func (m *Metrics) RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	opt := metric.WithAttributes(attrs...)

	m.AIProcessingTime.Record(ctx, duration.Seconds(), opt)
	m.AIRequestCount.Add(ctx, 1, opt)
	if err != nil {
		code := "UNKNOWN"
		if appErr, ok := errors.AsAppError(err); ok {
			code = appErr.Code
		}
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("error_code", code),
		))
	}

	if usage == nil {
		return
	}
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordDegradedExtraction counts an evaluation that lost its skill list
func (m *Metrics) RecordDegradedExtraction(ctx context.Context) {
	m.DegradedExtractions.Add(ctx, 1)
}

// RecordEvaluation counts an evaluation by outcome and records its final score
func (m *Metrics) RecordEvaluation(ctx context.Context, result *types.EvaluationResult, err error) {
	outcome := "success"
	switch {
	case err != nil:
		outcome = "failure"
	case result != nil && result.SkillExtractionError != "":
		outcome = "degraded"
	}
	m.Evaluations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	if err == nil && result != nil {
		m.FinalScore.Record(ctx, result.FinalScore)
	}
}

// RecordRateLimitHit counts a rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, keyType string) {
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
}

// RecordCertificateReload counts a TLS certificate reload attempt
func (m *Metrics) RecordCertificateReload(ctx context.Context, success bool) {
	m.CertificateReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}
