package common

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string]string

func (m mapReader) Read(_ context.Context, source string) (string, error) {
	text, ok := m[source]
	if !ok {
		return "", errors.NewIOError(errors.ErrCodeFileNotFound, "File not found: "+source, nil)
	}
	return text, nil
}

func testRunner(reader DocumentReader, stdout io.Writer) *Runner {
	runner := NewRunner(reader, errors.NewLoggerWithWriter(io.Discard, slog.LevelDebug))
	runner.Output.stdout = stdout
	return runner
}

func skillsOperation(_ context.Context, job string) (*types.SkillsResult, error) {
	return &types.SkillsResult{Skills: types.SkillList{"go"}}, nil
}

func firstContent(contents []string) (string, error) { return contents[0], nil }

func TestRunCommandWritesToStdout(t *testing.T) {
	var stdout bytes.Buffer
	runner := testRunner(mapReader{"job.txt": "Go engineer"}, &stdout)

	err := RunCommand(context.Background(), runner,
		CommandConfig{OutputFormat: "text"},
		[]InputSource{{Name: "job description", Source: "job.txt"}},
		firstContent, skillsOperation,
		func(string, CommandConfig) {})
	require.NoError(t, err)
	assert.Equal(t, "=== REQUIRED SKILLS (1) ===\n- go\n", stdout.String())
}

func TestRunCommandWritesToFile(t *testing.T) {
	var stdout bytes.Buffer
	runner := testRunner(mapReader{}, &stdout)
	out := filepath.Join(t.TempDir(), "nested", "skills.json")

	err := RunCommand(context.Background(), runner,
		CommandConfig{OutputFormat: "json", OutputFile: out},
		[]InputSource{{Name: "job description", Text: "inline job"}},
		firstContent, skillsOperation,
		func(string, CommandConfig) {})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills": ["go"]}`, string(written))
}

func TestLoadInputs(t *testing.T) {
	fp := NewFileProcessor(mapReader{"resume.txt": "Go", "blank.txt": "  \n"}, nil)

	contents, err := fp.LoadInputs(context.Background(),
		InputSource{Name: "resume", Source: "resume.txt"},
		InputSource{Name: "job description", Source: "ignored.txt", Text: "inline wins"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "inline wins"}, contents)

	_, err = fp.LoadInputs(context.Background(), InputSource{Name: "resume", Source: "blank.txt"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyInput))

	_, err = fp.LoadInputs(context.Background(), InputSource{Name: "resume", Source: "missing.txt"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))

	_, err = fp.LoadInputs(context.Background(), InputSource{Name: "job description"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyInput))
}

func TestValidateOutputFileRejectsDirectory(t *testing.T) {
	fp := NewFileProcessor(mapReader{}, nil)
	assert.NoError(t, fp.ValidateOutputFile(""))
	assert.NoError(t, fp.ValidateOutputFile(filepath.Join(t.TempDir(), "new.txt")))
	assert.Error(t, fp.ValidateOutputFile(t.TempDir()))
}
