package scoring

import (
	"context"
	stderrors "errors"

	"resumatch/internal/ai"
	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// Pipeline owns the AI providers behind an Evaluator
type Pipeline struct {
	Evaluator *Evaluator

	completer ai.CompletionProvider
	embedder  ai.EmbeddingProvider
}

// NewPipeline builds the completion and embedding providers named by cfg and
// wires them into an Evaluator.
func NewPipeline(ctx context.Context, cfg *config.Config, logger *errors.Logger, recorder Recorder) (*Pipeline, error) {
	extractionCfg := cfg.GetExtractionConfig()
	embeddingCfg := cfg.GetEmbeddingConfig()

	completer, err := ai.NewCompletionProvider(ctx, &extractionCfg, logger)
	if err != nil {
		return nil, err
	}

	embedder, err := ai.NewEmbeddingProvider(ctx, &embeddingCfg, logger)
	if err != nil {
		_ = completer.Close()
		return nil, err
	}

	return newPipeline(completer, embedder, extractionCfg.Prompt, cfg.Scoring, logger, recorder), nil
}

func newPipeline(completer ai.CompletionProvider, embedder ai.EmbeddingProvider, prompt string, scoring config.ScoringConfig, logger *errors.Logger, recorder Recorder) *Pipeline {
	extractor := NewSkillExtractor(completer, prompt, recorder)
	scorer := NewSemanticScorer(embedder, recorder)
	return &Pipeline{
		Evaluator: NewEvaluator(extractor, scorer, scoring, logger, recorder),
		completer: completer,
		embedder:  embedder,
	}
}

// Evaluate runs a full evaluation
func (p *Pipeline) Evaluate(ctx context.Context, resumeText, jobDescription string) (*types.EvaluationResult, error) {
	return p.Evaluator.Evaluate(ctx, resumeText, jobDescription)
}

// ExtractSkills runs only the skill extractor. Unlike Evaluate it does not
// degrade: a failed extraction is returned to the caller.
func (p *Pipeline) ExtractSkills(ctx context.Context, jobDescription string) (types.SkillList, error) {
	return p.Evaluator.Extractor().Extract(ctx, jobDescription)
}

// Healthy reports whether no provider circuit breaker is open
func (p *Pipeline) Healthy() bool {
	for _, stats := range []map[string]any{p.completer.Stats(), p.embedder.Stats()} {
		if healthy, ok := stats["healthy"].(bool); ok && !healthy {
			return false
		}
	}
	return true
}

// Models describes the model behind each operation
func (p *Pipeline) Models() []ai.ModelInfo {
	return []ai.ModelInfo{p.completer.Info(), p.embedder.Info()}
}

// Stats returns provider statistics keyed by operation
func (p *Pipeline) Stats() map[string]any {
	return map[string]any{
		ai.OperationExtraction: p.completer.Stats(),
		ai.OperationEmbedding:  p.embedder.Stats(),
	}
}

// Close releases both providers
func (p *Pipeline) Close() error {
	return stderrors.Join(p.completer.Close(), p.embedder.Close())
}
