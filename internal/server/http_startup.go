package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 30 * time.Second

// Middleware wraps the routed handler, e.g. otelhttp instrumentation
type Middleware func(http.Handler) http.Handler

// Start listens on Host:Port and serves until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context, middleware ...Middleware) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(s.Host, s.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on %s:%s: %w", s.Host, s.Port, err)
	}
	return s.Serve(ctx, listener, middleware...)
}

// Serve serves on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener, middleware ...Middleware) error {
	handler := s.Handler()
	for _, mw := range middleware {
		handler = mw(handler)
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}

	watcher, err := s.configureTLS(httpServer)
	if err != nil {
		_ = listener.Close()
		return err
	}
	if watcher != nil {
		defer func() { _ = watcher.Stop() }()
	}

	s.logServerInfo(listener.Addr().String(), httpServer.TLSConfig != nil)

	serverErrors := make(chan error, 1)
	go func() {
		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ServeTLS(listener, "", "")
		} else {
			err = httpServer.Serve(listener)
		}
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		s.closeRateLimiter()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.Logger.Info("Shutdown requested, starting graceful shutdown")
		return s.shutdown(httpServer)
	}
}

// configureTLS attaches a TLS config and, when enabled, a certificate file
// watcher that hot-reloads the key pair.
func (s *Server) configureTLS(httpServer *http.Server) (*CertWatcher, error) {
	if s.TLSConfig.Mode == "" || s.TLSConfig.Mode == "disabled" {
		return nil, nil
	}

	certs, err := newCertStore(s.TLSConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to set up TLS: %w", err)
	}
	tlsConfig, err := buildTLSConfig(s.TLSConfig, certs)
	if err != nil {
		return nil, fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig
	s.certs = certs

	if !s.TLSConfig.WatchFiles || s.TLSConfig.CertFile == "" {
		return nil, nil
	}

	watcher := NewCertWatcher(
		[]string{s.TLSConfig.CertFile, s.TLSConfig.KeyFile},
		s.TLSConfig.DebounceDelay,
		s.reloadCertificates,
		s.Logger,
	)
	if err := watcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	return watcher, nil
}

func (s *Server) reloadCertificates() {
	err := s.certs.reload()
	s.Recorder.RecordCertificateReload(context.Background(), err == nil)
	if err != nil {
		s.Logger.LogError(err, "Failed to reload TLS certificates, keeping the previous pair")
		return
	}
	s.Logger.Info("TLS certificates reloaded successfully")
}

func (s *Server) shutdown(httpServer *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.closeRateLimiter()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return httpServer.Close()
	}
	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

func (s *Server) closeRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}
}

// logServerInfo logs the endpoints and the security posture of the server
func (s *Server) logServerInfo(addr string, tlsEnabled bool) {
	scheme := "http"
	if tlsEnabled {
		scheme = "https"
	}

	s.Logger.Info("Starting HTTP server",
		"address", fmt.Sprintf("%s://%s", scheme, addr),
		"tls_mode", s.TLSConfig.Mode,
		"endpoints", []string{"GET /health", "GET /stats", "POST /evaluate", "POST /skills"},
		"max_request_size", s.MaxRequestSize)

	if len(s.APIKeys) == 0 {
		s.Logger.Warn("API authentication disabled, endpoints are publicly accessible")
	} else {
		s.Logger.Info("API authentication enabled", "keys", len(s.APIKeys))
	}

	if s.RateLimiter != nil {
		s.Logger.Info("Rate limiting enabled",
			"requests_per_min", s.RateLimit.RequestsPerMin,
			"burst", s.RateLimit.BurstCapacity,
			"by_ip", s.RateLimit.ByIP,
			"by_api_key", s.RateLimit.ByAPIKey)
	}
}
