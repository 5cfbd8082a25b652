package common

import (
	"testing"

	"resumatch/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}
	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   string
	}{
		{name: "json", format: "json", supported: supported},
		{name: "markdown", format: "markdown", supported: supported},
		{name: "xml rejected", format: "xml", supported: supported,
			wantErr: "unsupported output format 'xml'. Supported formats: [json text markdown]"},
		{name: "case sensitive", format: "JSON", supported: supported,
			wantErr: "unsupported output format 'JSON'. Supported formats: [json text markdown]"},
		{name: "empty format", format: "", supported: supported,
			wantErr: "unsupported output format ''. Supported formats: [json text markdown]"},
		{name: "no restriction", format: "xml", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequireText(t *testing.T) {
	assert.NoError(t, RequireText("resume", "Go developer"))

	for _, blank := range []string{"", "   ", "\n\t"} {
		err := RequireText("job description", blank)
		assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyInput), "input %q", blank)
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}
	for b.Loop() {
		_ = ValidateOutputFormat("xml", supportedFormats)
	}
}
