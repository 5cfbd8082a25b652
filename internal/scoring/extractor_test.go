package scoring

import (
	"context"
	stderrors "errors"
	"testing"

	"resumatch/internal/ai"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    types.SkillList
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"skills": ["Python", " SQL ", "Docker"]}`,
			want: types.SkillList{"python", "sql", "docker"},
		},
		{
			name: "fenced object",
			raw:  "```json\n{\"skills\": [\"Go\"]}\n```",
			want: types.SkillList{"go"},
		},
		{
			name: "non string entries skipped",
			raw:  `{"skills": ["Kubernetes", 3, null, {"name": "x"}, "Terraform"]}`,
			want: types.SkillList{"kubernetes", "terraform"},
		},
		{
			name: "duplicates and blanks removed",
			raw:  `{"skills": ["AWS", "aws", "  ", "", "GCP"]}`,
			want: types.SkillList{"aws", "gcp"},
		},
		{
			name: "empty list",
			raw:  `{"skills": []}`,
			want: types.SkillList{},
		},
		{name: "missing field", raw: `{"tools": ["go"]}`, wantErr: true},
		{name: "skills not an array", raw: `{"skills": "go, rust"}`, wantErr: true},
		{name: "not json", raw: `Here are the skills: go, rust`, wantErr: true},
		{name: "empty response", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSkills(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractBuildsPromptAndParses(t *testing.T) {
	completer := &fakeCompleter{text: `{"skills": ["Go", "PostgreSQL"]}`}
	recorder := &recordingRecorder{}
	extractor := NewSkillExtractor(completer, "", recorder)

	skills, err := extractor.Extract(context.Background(), "Backend engineer: Go and PostgreSQL")
	require.NoError(t, err)

	assert.Equal(t, types.SkillList{"go", "postgresql"}, skills)
	assert.Contains(t, completer.lastPrompt, "Backend engineer: Go and PostgreSQL")
	assert.Contains(t, completer.lastPrompt, `"skills"`)
	assert.Equal(t, []string{ai.OperationExtraction}, recorder.operations)
}

func TestExtractCustomPrompt(t *testing.T) {
	completer := &fakeCompleter{text: `{"skills": []}`}
	extractor := NewSkillExtractor(completer, "Skills in {{jobDescription}}?", nil)

	_, err := extractor.Extract(context.Background(), "a job")
	require.NoError(t, err)
	assert.Equal(t, "Skills in a job?", completer.lastPrompt)
}

func TestExtractReturnsExplicitErrors(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{"provider failure", &fakeCompleter{err: stderrors.New("connection refused")}},
		{"malformed response", &fakeCompleter{text: "not json"}},
		{"missing skills field", &fakeCompleter{text: `{"result": []}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skills, err := NewSkillExtractor(tt.completer, "", nil).Extract(context.Background(), "job")
			require.Error(t, err)
			assert.Nil(t, skills)
			assert.True(t, errors.HasCode(err, errors.ErrCodeSkillExtractionFailed))
		})
	}
}
