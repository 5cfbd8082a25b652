package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resumatch/internal/ai"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// SkillExtractor pulls the required skills out of a job description
type SkillExtractor interface {
	Extract(ctx context.Context, jobDescription string) (types.SkillList, error)
}

// LLMSkillExtractor asks a completion provider for a {"skills": [...]} object
type LLMSkillExtractor struct {
	provider ai.CompletionProvider
	prompt   string
	recorder Recorder
}

var _ SkillExtractor = (*LLMSkillExtractor)(nil)

// NewSkillExtractor creates an extractor. An empty promptTemplate selects
// ai.DefaultSkillExtractionPrompt.
func NewSkillExtractor(provider ai.CompletionProvider, promptTemplate string, recorder Recorder) *LLMSkillExtractor {
	return &LLMSkillExtractor{
		provider: provider,
		prompt:   promptTemplate,
		recorder: recorderOrNop(recorder),
	}
}

// Extract returns the normalized skill list or a SKILL_EXTRACTION_FAILED error.
// It never degrades on its own; callers choose the fallback.
func (e *LLMSkillExtractor) Extract(ctx context.Context, jobDescription string) (types.SkillList, error) {
	prompt := ai.BuildSkillExtractionPrompt(e.prompt, jobDescription)

	start := time.Now()
	completion, err := e.provider.Complete(ctx, prompt)
	var usage *ai.TokenUsage
	if completion != nil {
		usage = completion.Usage
	}
	e.recorder.RecordAIOperation(ctx, ai.OperationExtraction, time.Since(start), usage, err)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeSkillExtractionFailed, "skill extraction call failed", err).
			WithContext("model", e.provider.Info().Model)
	}

	skills, err := ParseSkills(completion.Text)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeSkillExtractionFailed, "unexpected skill extraction response", err).
			WithContext("response_length", len(completion.Text))
	}
	return skills, nil
}

// ParseSkills decodes a {"skills": [...]} object, tolerating a surrounding
// markdown code fence. Non-string entries are skipped.
func ParseSkills(raw string) (types.SkillList, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	rawSkills, ok := payload["skills"]
	if !ok {
		return nil, fmt.Errorf("response has no \"skills\" field")
	}

	var entries []any
	if err := json.Unmarshal(rawSkills, &entries); err != nil {
		return nil, fmt.Errorf("\"skills\" is not an array: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := entry.(string); ok {
			names = append(names, name)
		}
	}
	return NormalizeSkills(names), nil
}

// NormalizeSkills lowercases and trims each skill, drops blanks and keeps
// the first occurrence of duplicates
func NormalizeSkills(names []string) types.SkillList {
	skills := make(types.SkillList, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		skill := strings.ToLower(strings.TrimSpace(name))
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}
	return skills
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
