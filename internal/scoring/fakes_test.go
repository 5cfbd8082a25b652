package scoring

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"resumatch/internal/ai"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

func testLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelDebug)
}

type fakeCompleter struct {
	text       string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (*ai.Completion, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Completion{Text: f.text, Usage: &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}, nil
}

func (f *fakeCompleter) Info() ai.ModelInfo {
	return ai.ModelInfo{Provider: "fake", Model: "fake-chat", Operation: ai.OperationExtraction}
}
func (f *fakeCompleter) Stats() map[string]any { return nil }
func (f *fakeCompleter) Close() error          { return nil }

// letterEmbedder embeds text as its a-z letter histogram
type letterEmbedder struct {
	err error
}

func (l *letterEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if l.err != nil {
		return nil, l.err
	}
	vec := make([]float64, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

func (l *letterEmbedder) Info() ai.ModelInfo {
	return ai.ModelInfo{Provider: "fake", Model: "letters", Operation: ai.OperationEmbedding}
}
func (l *letterEmbedder) Stats() map[string]any { return nil }
func (l *letterEmbedder) Close() error          { return nil }

// vectorEmbedder returns fixed vectors keyed by text
type vectorEmbedder map[string][]float64

func (v vectorEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	return v[text], nil
}
func (v vectorEmbedder) Info() ai.ModelInfo     { return ai.ModelInfo{} }
func (v vectorEmbedder) Stats() map[string]any { return nil }
func (v vectorEmbedder) Close() error          { return nil }

type staticExtractor struct {
	skills types.SkillList
	err    error
}

func (s staticExtractor) Extract(context.Context, string) (types.SkillList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append(types.SkillList(nil), s.skills...), nil
}

type recordingRecorder struct {
	mu          sync.Mutex
	operations  []string
	degraded    int
	evaluations int
	failures    int
}

func (r *recordingRecorder) RecordAIOperation(_ context.Context, operation string, _ time.Duration, _ *ai.TokenUsage, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, operation)
}

func (r *recordingRecorder) RecordDegradedExtraction(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded++
}

func (r *recordingRecorder) RecordEvaluation(_ context.Context, _ *types.EvaluationResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failures++
		return
	}
	r.evaluations++
}
