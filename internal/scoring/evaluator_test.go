package scoring

import (
	"context"
	stderrors "errors"
	"math"
	"testing"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultScoring() config.ScoringConfig {
	return config.ScoringConfig{
		Weights:     config.WeightsConfig{Skill: 0.5, Responsibility: 0.3, Embedding: 0.2},
		MatchPolicy: config.MatchPolicySubstring,
	}
}

func newTestEvaluator(extractor SkillExtractor, embedder *letterEmbedder, recorder Recorder) *Evaluator {
	return NewEvaluator(extractor, NewSemanticScorer(embedder, recorder), defaultScoring(), testLogger(), recorder)
}

func TestEvaluatePartialSkillMatch(t *testing.T) {
	evaluator := newTestEvaluator(staticExtractor{skills: types.SkillList{"python", "sql", "docker"}}, &letterEmbedder{}, nil)

	result, err := evaluator.Evaluate(context.Background(), "Senior Python engineer, strong SQL", "Python, SQL and Docker required")
	require.NoError(t, err)

	assert.Equal(t, types.SkillList{"python", "sql"}, result.ResumeSkills)
	assert.Equal(t, types.SkillList{"python", "sql", "docker"}, result.JobSkills)
	assert.Equal(t, types.SkillList{"docker"}, result.MissingSkills)
	assert.Equal(t, 66.67, result.SkillScore)
	assert.Empty(t, result.SkillExtractionError)
	assert.NotEmpty(t, result.EvaluationID)

	want := math.Round((0.5*200.0/3+0.3*result.ResponsibilityScore+0.2*result.EmbeddingScore)*100) / 100
	assert.Equal(t, want, result.FinalScore)
}

func TestEvaluateFinalScoreUsesUnroundedSkillRatio(t *testing.T) {
	tests := []struct {
		name   string
		skills types.SkillList
		resume string
		want   float64
	}{
		{"two of three", types.SkillList{"python", "sql", "docker"}, "python sql", 33.33},
		{"one of three", types.SkillList{"python", "sql", "docker"}, "python", 16.67},
		{"five of seven", types.SkillList{"a1", "b2", "c3", "d4", "e5", "f6", "g7"}, "a1 b2 c3 d4 e5", 35.71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := vectorEmbedder{tt.resume: {1, 0}, "job": {0, 1}}
			evaluator := NewEvaluator(staticExtractor{skills: tt.skills}, NewSemanticScorer(embedder, nil), defaultScoring(), testLogger(), nil)

			result, err := evaluator.Evaluate(context.Background(), tt.resume, "job")
			require.NoError(t, err)
			assert.Equal(t, 0.0, result.ResponsibilityScore)
			assert.Equal(t, tt.want, result.FinalScore)
		})
	}
}

func TestEvaluateDegradesWhenExtractionFails(t *testing.T) {
	recorder := &recordingRecorder{}
	extractor := NewSkillExtractor(&fakeCompleter{err: stderrors.New("rate limited")}, "", recorder)
	evaluator := newTestEvaluator(extractor, &letterEmbedder{}, recorder)

	result, err := evaluator.Evaluate(context.Background(), "Python developer", "Looking for a Python developer")
	require.NoError(t, err, "extraction failure must not escape Evaluate")

	assert.Empty(t, result.JobSkills)
	assert.Empty(t, result.ResumeSkills)
	assert.Equal(t, 0.0, result.SkillScore)
	assert.Contains(t, result.SkillExtractionError, errors.ErrCodeSkillExtractionFailed)

	r := result.ResponsibilityScore
	assert.Equal(t, math.Round((0.3*r+0.2*r)*100)/100, result.FinalScore)
	assert.Equal(t, 1, recorder.degraded)
	assert.Equal(t, 1, recorder.evaluations)
}

func TestEvaluateEmptyJobSkills(t *testing.T) {
	evaluator := newTestEvaluator(staticExtractor{skills: types.SkillList{}}, &letterEmbedder{}, nil)

	result, err := evaluator.Evaluate(context.Background(), "resume text", "job text")
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.SkillScore)
	assert.Equal(t, math.Round((0.3*result.ResponsibilityScore+0.2*result.EmbeddingScore)*100)/100, result.FinalScore)
}

// Preserved behavior: the embedding term is a copy of the responsibility
// score, not a separate computation.
func TestEvaluateEmbeddingScoreEqualsResponsibilityScore(t *testing.T) {
	evaluator := newTestEvaluator(staticExtractor{skills: types.SkillList{"go"}}, &letterEmbedder{}, nil)

	result, err := evaluator.Evaluate(context.Background(), "Go developer", "Hiring Go developers for cloud tooling")
	require.NoError(t, err)
	assert.Equal(t, result.ResponsibilityScore, result.EmbeddingScore)
}

func TestEvaluateIdenticalTexts(t *testing.T) {
	evaluator := newTestEvaluator(staticExtractor{skills: types.SkillList{"go", "kubernetes"}}, &letterEmbedder{}, nil)
	text := "Go and Kubernetes platform engineer"

	result, err := evaluator.Evaluate(context.Background(), text, text)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.ResponsibilityScore)
	assert.Equal(t, 100.0, result.SkillScore)
	assert.Equal(t, 100.0, result.FinalScore)
}

func TestEvaluateScoresStayInBounds(t *testing.T) {
	inputs := []struct{ resume, job string }{
		{"", ""},
		{"", "Python developer"},
		{"Python developer", ""},
		{"!!!", "???"},
		{"zzzz", "aaaa"},
		{"Python SQL Docker", "Python SQL Docker"},
	}
	skills := types.SkillList{"python", "sql", "docker"}

	for _, in := range inputs {
		evaluator := newTestEvaluator(staticExtractor{skills: skills}, &letterEmbedder{}, nil)
		result, err := evaluator.Evaluate(context.Background(), in.resume, in.job)
		require.NoError(t, err)

		for name, score := range map[string]float64{
			"skill":          result.SkillScore,
			"responsibility": result.ResponsibilityScore,
			"embedding":      result.EmbeddingScore,
			"final":          result.FinalScore,
		} {
			assert.GreaterOrEqual(t, score, 0.0, "%s score for %q/%q", name, in.resume, in.job)
			assert.LessOrEqual(t, score, 100.0, "%s score for %q/%q", name, in.resume, in.job)
		}
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	evaluator := newTestEvaluator(staticExtractor{skills: types.SkillList{"python", "aws"}}, &letterEmbedder{}, nil)

	first, err := evaluator.Evaluate(context.Background(), "Python on AWS", "AWS data engineer, Python")
	require.NoError(t, err)
	second, err := evaluator.Evaluate(context.Background(), "Python on AWS", "AWS data engineer, Python")
	require.NoError(t, err)

	assert.NotEqual(t, first.EvaluationID, second.EvaluationID)
	first.EvaluationID, second.EvaluationID = "", ""
	assert.Equal(t, first, second)
}

func TestEvaluatePropagatesEmbeddingFailure(t *testing.T) {
	recorder := &recordingRecorder{}
	evaluator := newTestEvaluator(staticExtractor{skills: types.SkillList{"go"}}, &letterEmbedder{err: stderrors.New("boom")}, recorder)

	result, err := evaluator.Evaluate(context.Background(), "resume", "job")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmbeddingFailed))
	assert.Equal(t, 1, recorder.failures)
}

func TestEvaluateUsesConfiguredWeights(t *testing.T) {
	cfg := config.ScoringConfig{
		Weights:     config.WeightsConfig{Skill: 1, Responsibility: 0, Embedding: 0},
		MatchPolicy: config.MatchPolicyWord,
	}
	evaluator := NewEvaluator(staticExtractor{skills: types.SkillList{"go", "rust"}},
		NewSemanticScorer(&letterEmbedder{}, nil), cfg, testLogger(), nil)

	result, err := evaluator.Evaluate(context.Background(), "going places with rust", "Go and Rust")
	require.NoError(t, err)

	assert.Equal(t, types.SkillList{"rust"}, result.ResumeSkills)
	assert.Equal(t, 50.0, result.FinalScore)
	assert.Equal(t, types.Weights{Skill: 1}, result.Weights)
}

func TestSkillAndFinalScoreHelpers(t *testing.T) {
	assert.Equal(t, 0.0, SkillScore(0, 0))
	assert.Equal(t, 33.33, SkillScore(1, 3))
	assert.Equal(t, 100.0, SkillScore(4, 4))

	w := types.Weights{Skill: 0.5, Responsibility: 0.3, Embedding: 0.2}
	assert.Equal(t, 100.0, FinalScore(w, 100, 100, 100))
	assert.Equal(t, 0.0, FinalScore(w, 0, 0, 0))
	assert.Equal(t, 50.0, FinalScore(w, 100, 0, 0))
}
