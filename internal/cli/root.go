package cli

import (
	"context"
	"time"

	"resumatch/internal/common"
	"resumatch/internal/config"
	"resumatch/internal/document"
	"resumatch/internal/errors"
	"resumatch/internal/observability"
	"resumatch/internal/scoring"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type observabilityKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}
var observabilityKey = observabilityKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumatch",
	Short: "Score how well a résumé matches a job description",
	Long: `Resumatch extracts the required skills from a job description with an
LLM, checks which of them a résumé mentions, and combines that with the
semantic similarity of both documents into a single match score.

Résumés and job descriptions may be plain text, PDF or DOCX files, local or
s3://bucket/key.`,
	SilenceUsage: true,
}

// Execute runs the root command with cfg, logger and an observability
// manager attached to ctx.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	manager, err := observability.NewManager(ctx, cfg.Observability, Version, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, observabilityKey, manager)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

func getObservabilityFromContext(ctx context.Context) *observability.Manager {
	if manager, ok := ctx.Value(observabilityKey).(*observability.Manager); ok {
		return manager
	}
	panic("observability manager not found in context")
}

// newPipeline builds the shared evaluation pipeline for a command
func newPipeline(ctx context.Context) (*scoring.Pipeline, error) {
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	manager := getObservabilityFromContext(ctx)
	return scoring.NewPipeline(ctx, cfg, logger, manager.Metrics())
}

// newRunner builds a command runner reading documents as configured
func newRunner(ctx context.Context) *common.Runner {
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	return common.NewRunner(document.NewReader(cfg.Document, logger), logger)
}

// prepareOutput applies the default format and validates it
func prepareOutput(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

func completeFormats(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg, ok := cmd.Context().Value(configKey).(*config.Config)
	if !ok {
		return []string{}, cobra.ShellCompDirectiveError
	}
	return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
