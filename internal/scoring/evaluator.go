package scoring

import (
	"context"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Evaluator runs the extraction, matching and semantic scoring pipeline for
// one résumé against one job description
type Evaluator struct {
	extractor SkillExtractor
	scorer    *SemanticScorer
	weights   types.Weights
	policy    string
	logger    *errors.Logger
	recorder  Recorder
}

// NewEvaluator wires the pipeline. Weights and the match policy come from
// the scoring configuration.
func NewEvaluator(extractor SkillExtractor, scorer *SemanticScorer, cfg config.ScoringConfig, logger *errors.Logger, recorder Recorder) *Evaluator {
	return &Evaluator{
		extractor: extractor,
		scorer:    scorer,
		weights: types.Weights{
			Skill:          cfg.Weights.Skill,
			Responsibility: cfg.Weights.Responsibility,
			Embedding:      cfg.Weights.Embedding,
		},
		policy:   cfg.MatchPolicy,
		logger:   logger,
		recorder: recorderOrNop(recorder),
	}
}

// Extractor returns the skill extractor used by the pipeline
func (e *Evaluator) Extractor() SkillExtractor {
	return e.extractor
}

// Evaluate scores resumeText against jobDescription. A failed skill
// extraction degrades to an empty skill list; a failed embedding aborts the
// evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, resumeText, jobDescription string) (*types.EvaluationResult, error) {
	ctx, span := otel.Tracer("resumatch.scoring").Start(ctx, "scoring.evaluate")
	defer span.End()

	result := &types.EvaluationResult{
		EvaluationID: uuid.NewString(),
		Weights:      e.weights,
	}
	span.SetAttributes(attribute.String("evaluation.id", result.EvaluationID))

	jobSkills, err := e.extractor.Extract(ctx, jobDescription)
	if err != nil {
		e.logger.LogError(err, "Skill extraction failed, continuing with no required skills",
			"evaluation_id", result.EvaluationID)
		e.recorder.RecordDegradedExtraction(ctx)
		span.SetAttributes(attribute.Bool("skills.degraded", true))
		result.SkillExtractionError = err.Error()
		jobSkills = types.SkillList{}
	}

	resumeSkills := MatchSkills(resumeText, jobSkills, e.policy)
	result.JobSkills = jobSkills
	result.ResumeSkills = resumeSkills
	result.MissingSkills = MissingSkills(jobSkills, resumeSkills)
	skillRatio := skillPercent(len(resumeSkills), len(jobSkills))
	result.SkillScore = round2(skillRatio)

	responsibility, err := e.scorer.Score(ctx, resumeText, jobDescription)
	if err != nil {
		span.RecordError(err)
		e.recorder.RecordEvaluation(ctx, nil, err)
		return nil, err
	}
	result.ResponsibilityScore = responsibility
	// The embedding term reuses the responsibility similarity.
	result.EmbeddingScore = responsibility
	// Only the skill term enters unrounded.
	result.FinalScore = FinalScore(e.weights, skillRatio, result.ResponsibilityScore, result.EmbeddingScore)

	span.SetAttributes(
		attribute.Int("skills.required", len(jobSkills)),
		attribute.Int("skills.matched", len(resumeSkills)),
		attribute.Float64("score.final", result.FinalScore),
	)
	e.recorder.RecordEvaluation(ctx, result, nil)

	e.logger.Debug("Evaluation completed",
		"evaluation_id", result.EvaluationID,
		"skill_score", result.SkillScore,
		"responsibility_score", result.ResponsibilityScore,
		"final_score", result.FinalScore)

	return result, nil
}

// SkillScore is matched/required as a percentage, 0 when nothing is required
func SkillScore(matched, required int) float64 {
	return round2(skillPercent(matched, required))
}

func skillPercent(matched, required int) float64 {
	if required == 0 {
		return 0
	}
	return clamp(float64(matched)/float64(required)*100, 0, 100)
}

// FinalScore is the weighted sum of the three component scores
func FinalScore(w types.Weights, skill, responsibility, embedding float64) float64 {
	total := w.Skill*skill + w.Responsibility*responsibility + w.Embedding*embedding
	return round2(clamp(total, 0, 100))
}
