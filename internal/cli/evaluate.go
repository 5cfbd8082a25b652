package cli

import (
	"context"
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [resume] [job-description]",
	Short: "Score a résumé against a job description",
	Long: `Evaluate a résumé against a job description.

The job's required skills are extracted by the configured completion model and
matched against the résumé text. Both documents are embedded and compared for
the responsibility score. The final score is the weighted sum configured under
scoring.weights.

Pass the job description either as a second document or inline with --job-text.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 && evaluateJobText != "" {
			return fmt.Errorf("give the job description either as a document or with --job-text, not both")
		}
		if len(args) == 1 && evaluateJobText == "" {
			return fmt.Errorf("a job description document or --job-text is required")
		}
		return prepareOutput(cmd, &evaluateConfig)
	},
	RunE: runEvaluate,
}

var (
	evaluateConfig  common.CommandConfig
	evaluateJobText string
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	evaluateCmd.Flags().StringVar(&evaluateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	evaluateCmd.Flags().StringVar(&evaluateJobText, "job-text", "", "Job description text instead of a document")

	_ = evaluateCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)

	pipeline, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = pipeline.Close() }()

	inputs := []common.InputSource{{Name: "resume", Source: args[0]}}
	job := common.InputSource{Name: "job description", Text: evaluateJobText}
	if len(args) == 2 {
		job.Source = args[1]
	}
	inputs = append(inputs, job)

	createInput := func(contents []string) (types.EvaluateInput, error) {
		if len(contents) != 2 {
			return types.EvaluateInput{}, fmt.Errorf("expected 2 inputs, got %d", len(contents))
		}
		return types.EvaluateInput{ResumeText: contents[0], JobDescription: contents[1]}, nil
	}

	logDetails := func(input types.EvaluateInput, cfg common.CommandConfig) {
		logger.Info("Starting résumé evaluation",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	evaluate := func(ctx context.Context, input types.EvaluateInput) (*types.EvaluationResult, error) {
		return pipeline.Evaluate(ctx, input.ResumeText, input.JobDescription)
	}

	if err := common.RunCommand(ctx, newRunner(ctx), evaluateConfig, inputs, createInput, evaluate, logDetails); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return nil
}
