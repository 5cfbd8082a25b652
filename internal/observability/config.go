package observability

import (
	"os"
	"strings"
	"time"

	"resumatch/internal/config"
)

const defaultCollectionInterval = 15 * time.Second

// Settings is the resolved observability configuration
type Settings struct {
	config.ObservabilityConfig
}

// SettingsFromConfig fills service identity and interval gaps in cfg.
// version is used when no service version is configured.
func SettingsFromConfig(cfg config.ObservabilityConfig, version string) Settings {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "resumatch"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = version
	}
	if cfg.ServiceInstance == "" {
		cfg.ServiceInstance = defaultInstanceID(cfg.ServiceName)
	}
	if cfg.Metrics.CollectionInterval <= 0 {
		cfg.Metrics.CollectionInterval = defaultCollectionInterval
	}
	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		cfg.Tracing.SampleRate = 1
	}
	if cfg.Prometheus.Endpoint == "" {
		cfg.Prometheus.Endpoint = "/metrics"
	}
	// otlp*http.WithEndpoint expects host:port without a scheme
	cfg.OTLP.Endpoint = strings.TrimPrefix(strings.TrimPrefix(cfg.OTLP.Endpoint, "http://"), "https://")
	return Settings{ObservabilityConfig: cfg}
}

func defaultInstanceID(serviceName string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return serviceName + "-1"
	}
	return serviceName + "-" + host
}
