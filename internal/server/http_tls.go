package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"resumatch/internal/config"
)

// certStore holds the current server certificate and swaps it on reload
type certStore struct {
	mu         sync.RWMutex
	tlsConfig  config.TLSConfig
	cert       *tls.Certificate
	notAfter   time.Time
	reloads    int
	failures   int
	lastReload time.Time
	lastError  string
}

func newCertStore(cfg config.TLSConfig) (*certStore, error) {
	store := &certStore{tlsConfig: cfg}
	if err := store.reload(); err != nil {
		return nil, err
	}
	store.reloads = 0
	return store, nil
}

// reload re-reads the key pair. On failure the previous certificate stays active.
func (cs *certStore) reload() error {
	cert, err := loadServerCertificate(cs.tlsConfig)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.lastReload = time.Now()
	if err != nil {
		cs.failures++
		cs.lastError = err.Error()
		return err
	}

	if cert.Leaf == nil && len(cert.Certificate) > 0 {
		if leaf, parseErr := x509.ParseCertificate(cert.Certificate[0]); parseErr == nil {
			cert.Leaf = leaf
		}
	}
	if cert.Leaf != nil {
		cs.notAfter = cert.Leaf.NotAfter
	}
	cs.cert = &cert
	cs.reloads++
	cs.lastError = ""
	return nil
}

func (cs *certStore) getCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.cert, nil
}

// status reports expiry and reload counters; under 24h to expiry is unhealthy
func (cs *certStore) status() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	untilExpiry := time.Until(cs.notAfter)
	return map[string]any{
		"healthy":              untilExpiry > 24*time.Hour,
		"not_after":            cs.notAfter,
		"time_to_expiry_hours": int(untilExpiry.Hours()),
		"reload_count":         cs.reloads,
		"reload_failure_count": cs.failures,
		"last_reload_time":     cs.lastReload,
		"last_reload_error":    cs.lastError,
	}
}

// buildTLSConfig creates the TLS configuration for server or mutual mode
func buildTLSConfig(cfg config.TLSConfig, certs *certStore) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: certs.getCertificate,
		ClientAuth:     tls.NoClientCert,
	}
	if cfg.MinVersion == "1.3" {
		tlsConfig.MinVersion = tls.VersionTLS13
	}

	if cfg.Mode != "mutual" {
		return tlsConfig, nil
	}

	caCert, err := loadCACertificate(cfg)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caCert); !ok {
		return nil, fmt.Errorf("failed to append CA cert")
	}
	tlsConfig.ClientCAs = pool
	tlsConfig.ClientAuth = clientAuthPolicy(cfg.ClientAuthPolicy)

	return tlsConfig, nil
}

// loadServerCertificate loads the server certificate from content or files
func loadServerCertificate(cfg config.TLSConfig) (tls.Certificate, error) {
	if cfg.CertContent != "" && cfg.KeyContent != "" {
		cert, err := tls.X509KeyPair([]byte(cfg.CertContent), []byte(cfg.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from content: %w", err)
		}
		return cert, nil
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from files: %w", err)
		}
		return cert, nil
	}

	return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
}

// loadCACertificate loads the CA certificate from content or file
func loadCACertificate(cfg config.TLSConfig) ([]byte, error) {
	if cfg.CAContent != "" {
		return []byte(cfg.CAContent), nil
	}
	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		return caCert, nil
	}
	return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
