package observability

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// newPrometheusExporter registers an OTel Prometheus exporter on a private
// registry together with the Go runtime and process collectors.
func newPrometheusExporter() (sdkmetric.Reader, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return exporter, handler, nil
}

// PrometheusHandler returns the scrape handler, or nil when Prometheus is disabled
func (m *Manager) PrometheusHandler() http.Handler {
	return m.prometheus
}

// StartPrometheusServer serves the scrape endpoint on its own port until ctx
// is cancelled. It is a no-op when Prometheus is disabled.
func (m *Manager) StartPrometheusServer(ctx context.Context) error {
	if m.prometheus == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.settings.Prometheus.Endpoint, m.prometheus)

	addr := net.JoinHostPort("", m.settings.Prometheus.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for Prometheus metrics on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	m.logger.Info("Prometheus metrics server started",
		"address", listener.Addr().String(),
		"endpoint", m.settings.Prometheus.Endpoint)

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			m.logger.LogError(err, "Prometheus server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	return nil
}
