package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name     string
		tls      TLSConfig
		errorMsg string
	}{
		{
			name: "disabled mode",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name: "server mode with files",
			tls:  TLSConfig{Mode: "server", CertFile: "/path/cert.pem", KeyFile: "/path/key.pem"},
		},
		{
			name: "server mode with vault content",
			tls:  TLSConfig{Mode: "server", CertContent: "cert", KeyContent: "key", MinVersion: "1.3"},
		},
		{
			name:     "server mode missing key",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/cert.pem"},
			errorMsg: "TLS certificate and key are required for server mode",
		},
		{
			name:     "cert from file and content",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/cert.pem", CertContent: "cert", KeyFile: "/path/key.pem"},
			errorMsg: "cannot specify both certFile and certContent",
		},
		{
			name: "mutual mode valid",
			tls:  TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k", CAFile: "ca", ClientAuthPolicy: "verify"},
		},
		{
			name:     "mutual mode missing CA",
			tls:      TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k"},
			errorMsg: "CA certificate is required",
		},
		{
			name:     "mutual mode duplicate CA",
			tls:      TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k", CAFile: "ca", CAContent: "ca"},
			errorMsg: "cannot specify both caFile and caContent",
		},
		{
			name:     "mutual mode bad policy",
			tls:      TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k", CAFile: "ca", ClientAuthPolicy: "maybe"},
			errorMsg: "invalid clientAuthPolicy: maybe",
		},
		{
			name:     "invalid mode",
			tls:      TLSConfig{Mode: "invalid"},
			errorMsg: "invalid TLS mode: invalid",
		},
		{
			name:     "invalid version",
			tls:      TLSConfig{Mode: "server", CertFile: "c", KeyFile: "k", MinVersion: "1.1"},
			errorMsg: "invalid TLS minVersion: 1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{TLS: tt.tls}}
			err := cfg.ValidateTLSConfig()

			if tt.errorMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
