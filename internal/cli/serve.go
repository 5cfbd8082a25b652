package cli

import (
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scoring server",
	Long: `Start an HTTP server exposing the evaluation pipeline.

Available endpoints:
- POST /evaluate: Score a résumé against a job description
- POST /skills: Extract the required skills of a job description
- GET /health: Health check endpoint
- GET /stats: Circuit breaker, server and rate limiting statistics (API key required when configured)

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd.Flags())
}

func addServeFlags(flags *pflag.FlagSet) {
	flags.StringP("port", "p", "", "Port to listen on (default from config)")
	flags.String("host", "", "Host to bind to (default from config)")
	flags.String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	flags.String("cert-file", "", "Server certificate file (PEM, overrides config)")
	flags.String("key-file", "", "Server private key file (PEM, overrides config)")
	flags.String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeOverrides copies explicitly set flags onto the server config
func applyServeOverrides(cfg config.ServerConfig, flags *pflag.FlagSet) config.ServerConfig {
	overrides := []struct {
		flag   string
		target *string
	}{
		{"port", &cfg.Port},
		{"host", &cfg.Host},
		{"tls-mode", &cfg.TLS.Mode},
		{"cert-file", &cfg.TLS.CertFile},
		{"key-file", &cfg.TLS.KeyFile},
		{"ca-file", &cfg.TLS.CAFile},
	}
	for _, o := range overrides {
		if !flags.Changed(o.flag) {
			continue
		}
		if value, err := flags.GetString(o.flag); err == nil {
			*o.target = value
		}
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	manager := getObservabilityFromContext(ctx)

	serverCfg := applyServeOverrides(cfg.Server, cmd.Flags())

	// Validate TLS configuration after applying overrides
	tempConfig := &config.Config{Server: serverCfg}
	if err := tempConfig.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	pipeline, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = pipeline.Close() }()

	if err := manager.StartPrometheusServer(ctx); err != nil {
		return err
	}

	srv := server.NewServer(serverCfg, Version, pipeline, manager.Metrics(), logger)
	return srv.Start(ctx, manager.HTTPMiddleware())
}
