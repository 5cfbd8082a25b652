package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"resumatch/internal/ai"
	"resumatch/internal/errors"
)

// SemanticScorer scores résumé to job similarity from text embeddings
type SemanticScorer struct {
	embedder ai.EmbeddingProvider
	recorder Recorder
}

// NewSemanticScorer creates a scorer around a process-wide embedding provider
func NewSemanticScorer(embedder ai.EmbeddingProvider, recorder Recorder) *SemanticScorer {
	return &SemanticScorer{embedder: embedder, recorder: recorderOrNop(recorder)}
}

// Score embeds both texts and returns their cosine similarity as a
// percentage in [0, 100], rounded to two decimals. Negative similarity
// scores 0. Embedding errors are returned unchanged.
func (s *SemanticScorer) Score(ctx context.Context, resumeText, jobDescription string) (float64, error) {
	resumeVec, err := s.embed(ctx, resumeText)
	if err != nil {
		return 0, err
	}
	jobVec, err := s.embed(ctx, jobDescription)
	if err != nil {
		return 0, err
	}

	similarity, err := CosineSimilarity(resumeVec, jobVec)
	if err != nil {
		return 0, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "embeddings are not comparable", err)
	}
	return round2(clamp(similarity, 0, 1) * 100), nil
}

func (s *SemanticScorer) embed(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()
	vec, err := s.embedder.Embed(ctx, text)
	s.recorder.RecordAIOperation(ctx, ai.OperationEmbedding, time.Since(start), nil, err)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeEmbeddingFailed) {
			return nil, err
		}
		return nil, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "embedding call failed", err)
	}
	return vec, nil
}

// CosineSimilarity returns a·b / (|a||b|). A zero vector has similarity 0
// with everything.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
