package cli

import (
	"context"
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills [job-description]",
	Short: "List the skills a job description requires",
	Long: `Extract the required skills of a job description without scoring a
résumé. Unlike evaluate, a failed extraction is reported as an error.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 1) == (skillsJobText != "") {
			return fmt.Errorf("give the job description either as a document or with --job-text")
		}
		return prepareOutput(cmd, &skillsConfig)
	},
	RunE: runSkills,
}

var (
	skillsConfig  common.CommandConfig
	skillsJobText string
)

func init() {
	skillsCmd.Flags().StringVarP(&skillsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	skillsCmd.Flags().StringVar(&skillsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	skillsCmd.Flags().StringVar(&skillsJobText, "job-text", "", "Job description text instead of a document")

	_ = skillsCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runSkills(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)

	pipeline, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = pipeline.Close() }()

	job := common.InputSource{Name: "job description", Text: skillsJobText}
	if len(args) == 1 {
		job.Source = args[0]
	}

	createInput := func(contents []string) (types.ExtractSkillsInput, error) {
		return types.ExtractSkillsInput{JobDescription: contents[0]}, nil
	}

	logDetails := func(input types.ExtractSkillsInput, cfg common.CommandConfig) {
		logger.Info("Starting skill extraction",
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	extract := func(ctx context.Context, input types.ExtractSkillsInput) (*types.SkillsResult, error) {
		skills, err := pipeline.ExtractSkills(ctx, input.JobDescription)
		if err != nil {
			return nil, err
		}
		return &types.SkillsResult{Skills: skills}, nil
	}

	if err := common.RunCommand(ctx, newRunner(ctx), skillsConfig, []common.InputSource{job}, createInput, extract, logDetails); err != nil {
		return fmt.Errorf("skill extraction failed: %w", err)
	}
	return nil
}
