package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumatch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "EvaluationResult", &EvaluationTextFormatter{})
	registry.RegisterFormatter("markdown", "EvaluationResult", &EvaluationMarkdownFormatter{})
	registry.RegisterFormatter("text", "SkillsResult", &SkillsTextFormatter{})
	registry.RegisterFormatter("markdown", "SkillsResult", &SkillsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data = deref(data)
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func deref(data any) any {
	switch v := data.(type) {
	case *types.EvaluationResult:
		if v != nil {
			return *v
		}
	case *types.SkillsResult:
		if v != nil {
			return *v
		}
	}
	return data
}

func getDataType(data any) string {
	switch data.(type) {
	case types.EvaluationResult:
		return "EvaluationResult"
	case types.SkillsResult:
		return "SkillsResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// EvaluationTextFormatter renders an evaluation for a terminal
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationResult)
	if !ok {
		return "", fmt.Errorf("expected EvaluationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME MATCH ===\n\n")
	fmt.Fprintf(&output, "Final Score: %6.2f%% %s\n\n", result.FinalScore, ScoreBar(result.FinalScore, 30))

	output.WriteString("=== SCORES ===\n")
	fmt.Fprintf(&output, "Skill match:      %6.2f%% (weight %.2f)\n", result.SkillScore, result.Weights.Skill)
	fmt.Fprintf(&output, "Responsibilities: %6.2f%% (weight %.2f)\n", result.ResponsibilityScore, result.Weights.Responsibility)
	fmt.Fprintf(&output, "Embedding:        %6.2f%% (weight %.2f)\n\n", result.EmbeddingScore, result.Weights.Embedding)

	output.WriteString("=== SKILLS ===\n")
	fmt.Fprintf(&output, "Required (%d): %s\n", len(result.JobSkills), joinOrNone(result.JobSkills))
	fmt.Fprintf(&output, "Matched (%d):  %s\n", len(result.ResumeSkills), joinOrNone(result.ResumeSkills))
	fmt.Fprintf(&output, "Missing (%d):  %s\n", len(result.MissingSkills), joinOrNone(result.MissingSkills))

	if result.SkillExtractionError != "" {
		output.WriteString("\nWarning: skill extraction failed, the skill score is 0.\n")
	}

	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "EvaluationResult"
}

// EvaluationMarkdownFormatter renders an evaluation as a markdown report
type EvaluationMarkdownFormatter struct{}

func (emf *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationResult)
	if !ok {
		return "", fmt.Errorf("expected EvaluationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Match\n\n")
	fmt.Fprintf(&output, "**Final score:** %.2f%%\n\n", result.FinalScore)

	output.WriteString("## Scores\n\n")
	output.WriteString("| Component | Score | Weight |\n")
	output.WriteString("|---|---|---|\n")
	fmt.Fprintf(&output, "| Skill match | %.2f%% | %.2f |\n", result.SkillScore, result.Weights.Skill)
	fmt.Fprintf(&output, "| Responsibilities | %.2f%% | %.2f |\n", result.ResponsibilityScore, result.Weights.Responsibility)
	fmt.Fprintf(&output, "| Embedding | %.2f%% | %.2f |\n\n", result.EmbeddingScore, result.Weights.Embedding)

	output.WriteString("## Matched Skills\n\n")
	writeMarkdownList(&output, result.ResumeSkills)

	output.WriteString("## Missing Skills\n\n")
	writeMarkdownList(&output, result.MissingSkills)

	if result.SkillExtractionError != "" {
		output.WriteString("> **Warning:** skill extraction failed, the skill score is 0.\n")
	}

	return output.String(), nil
}

func (emf *EvaluationMarkdownFormatter) SupportedType() string {
	return "EvaluationResult"
}

// SkillsTextFormatter renders an extracted skill list, one per line
type SkillsTextFormatter struct{}

func (stf *SkillsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SkillsResult)
	if !ok {
		return "", fmt.Errorf("expected SkillsResult, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== REQUIRED SKILLS (%d) ===\n", len(result.Skills))
	for _, skill := range result.Skills {
		output.WriteString("- ")
		output.WriteString(skill)
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (stf *SkillsTextFormatter) SupportedType() string {
	return "SkillsResult"
}

// SkillsMarkdownFormatter renders an extracted skill list as markdown
type SkillsMarkdownFormatter struct{}

func (smf *SkillsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SkillsResult)
	if !ok {
		return "", fmt.Errorf("expected SkillsResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Required Skills\n\n")
	writeMarkdownList(&output, result.Skills)
	return output.String(), nil
}

func (smf *SkillsMarkdownFormatter) SupportedType() string {
	return "SkillsResult"
}

// ScoreBar draws a percentage as a fixed-width bar of filled and empty cells
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		return ""
	}
	score = max(0, min(100, score))
	filled := int(score/100*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func joinOrNone(skills types.SkillList) string {
	if len(skills) == 0 {
		return "none"
	}
	return strings.Join(skills, ", ")
}

func writeMarkdownList(output *strings.Builder, skills types.SkillList) {
	if len(skills) == 0 {
		output.WriteString("_None_\n\n")
		return
	}
	for _, skill := range skills {
		output.WriteString("- ")
		output.WriteString(skill)
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
