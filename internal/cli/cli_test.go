package cli

import (
	"bytes"
	"context"
	"testing"

	"resumatch/internal/common"
	"resumatch/internal/config"
	"resumatch/internal/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addServeFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestApplyServeOverrides(t *testing.T) {
	base := config.ServerConfig{
		Host: "localhost",
		Port: "8080",
		TLS:  config.TLSConfig{Mode: "disabled", CertFile: "/etc/cert.pem"},
	}

	tests := []struct {
		name   string
		args   []string
		expect func(t *testing.T, got config.ServerConfig)
	}{
		{
			name: "no flags keeps config",
			expect: func(t *testing.T, got config.ServerConfig) {
				assert.Equal(t, base, got)
			},
		},
		{
			name: "port and host",
			args: []string{"-p", "9090", "--host", "0.0.0.0"},
			expect: func(t *testing.T, got config.ServerConfig) {
				assert.Equal(t, "9090", got.Port)
				assert.Equal(t, "0.0.0.0", got.Host)
				assert.Equal(t, "/etc/cert.pem", got.TLS.CertFile)
			},
		},
		{
			name: "tls files",
			args: []string{"--tls-mode", "mutual", "--key-file", "/k.pem", "--ca-file", "/ca.pem"},
			expect: func(t *testing.T, got config.ServerConfig) {
				assert.Equal(t, "mutual", got.TLS.Mode)
				assert.Equal(t, "/k.pem", got.TLS.KeyFile)
				assert.Equal(t, "/ca.pem", got.TLS.CAFile)
				assert.Equal(t, "/etc/cert.pem", got.TLS.CertFile)
			},
		},
		{
			name: "explicit empty value clears",
			args: []string{"--cert-file", ""},
			expect: func(t *testing.T, got config.ServerConfig) {
				assert.Empty(t, got.TLS.CertFile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyServeOverrides(base, serveFlags(t, tt.args...))
			tt.expect(t, got)
		})
	}
	assert.Equal(t, "8080", base.Port, "base config is not modified")
}

func testContext(cfg *config.Config) context.Context {
	logger := errors.NewLoggerWithWriter(&bytes.Buffer{}, 0)
	ctx := context.WithValue(context.Background(), configKey, cfg)
	return context.WithValue(ctx, loggerKey, logger)
}

func TestPrepareOutput(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{
		DefaultFormat:    "json",
		SupportedFormats: []string{"json", "text", "markdown"},
	}}

	cmd := &cobra.Command{}
	cmd.SetContext(testContext(cfg))

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr bool
	}{
		{"default applied", "", "json", false},
		{"explicit kept", "markdown", "markdown", false},
		{"unsupported", "yaml", "yaml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := common.CommandConfig{OutputFormat: tt.format}
			err := prepareOutput(cmd, &c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, c.OutputFormat)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "resumatch version "+Version)
	assert.Contains(t, out.String(), "Git commit: "+GitCommit)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"evaluate", "skills", "serve", "version"} {
		assert.True(t, names[want], want)
	}
}
