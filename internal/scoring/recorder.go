package scoring

import (
	"context"
	"time"

	"resumatch/internal/ai"
	"resumatch/internal/types"
)

// Recorder receives pipeline measurements. observability.Metrics is the
// production implementation.
type Recorder interface {
	RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error)
	RecordDegradedExtraction(ctx context.Context)
	RecordEvaluation(ctx context.Context, result *types.EvaluationResult, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordAIOperation(context.Context, string, time.Duration, *ai.TokenUsage, error) {}
func (nopRecorder) RecordDegradedExtraction(context.Context)                                        {}
func (nopRecorder) RecordEvaluation(context.Context, *types.EvaluationResult, error)                {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
