package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// Manager owns the tracer and meter providers of the process
type Manager struct {
	settings       Settings
	resource       *resource.Resource
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	prometheus     http.Handler
	logger         *errors.Logger
	shutdownFuncs  []func(context.Context) error
}

// NewManager sets up tracing and metrics as configured. A disabled
// configuration yields a manager whose Metrics are no-ops.
func NewManager(ctx context.Context, cfg config.ObservabilityConfig, version string, logger *errors.Logger) (*Manager, error) {
	settings := SettingsFromConfig(cfg, version)
	m := &Manager{settings: settings, logger: logger}

	if !settings.Enabled {
		metrics, err := newMetrics(noop.NewMeterProvider().Meter(settings.ServiceName))
		if err != nil {
			return nil, err
		}
		m.metrics = metrics
		return m, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(settings.ServiceName),
			semconv.ServiceVersion(settings.ServiceVersion),
			attribute.String("service.instance.id", settings.ServiceInstance),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	m.resource = res

	if settings.Tracing.Enabled {
		if err := m.initTracing(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if err := m.initMetrics(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

func (m *Manager) initTracing(ctx context.Context) error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case m.settings.ConsoleOutput:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	case m.settings.OTLP.Enabled:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(m.settings.OTLP.Endpoint)}
		if m.settings.OTLP.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(m.settings.OTLP.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(m.settings.OTLP.Headers))
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	opts := []trace.TracerProviderOption{
		trace.WithResource(m.resource),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(m.settings.Tracing.SampleRate))),
	}
	if exporter != nil {
		opts = append(opts, trace.WithBatcher(exporter))
	}

	tp := trace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics(ctx context.Context) error {
	readers, err := m.metricReaders(ctx)
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(m.resource)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(m.settings.ServiceName))
	if err != nil {
		return err
	}
	m.metrics = metrics
	return nil
}

// metricReaders returns one reader per enabled exporter. A manual reader
// stands in when metrics are enabled without any exporter.
func (m *Manager) metricReaders(ctx context.Context) ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	if !m.settings.Metrics.Enabled {
		return readers, nil
	}
	interval := m.settings.Metrics.CollectionInterval

	if m.settings.ConsoleOutput {
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if m.settings.OTLP.Enabled {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(m.settings.OTLP.Endpoint)}
		if m.settings.OTLP.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(m.settings.OTLP.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(m.settings.OTLP.Headers))
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if m.settings.Prometheus.Enabled {
		reader, handler, err := newPrometheusExporter()
		if err != nil {
			return nil, err
		}
		readers = append(readers, reader)
		m.prometheus = handler
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

// Metrics returns the pipeline metrics. It is never nil.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Settings returns the resolved observability settings
func (m *Manager) Settings() Settings {
	return m.settings
}

// HTTPMiddleware wraps handlers with otelhttp server instrumentation
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.settings.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}
	if m.tracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(m.tracerProvider))
	}
	if m.meterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(m.meterProvider))
	}
	return otelhttp.NewMiddleware(m.settings.ServiceName, opts...)
}

// Shutdown flushes and stops every provider
func (m *Manager) Shutdown(ctx context.Context) error {
	var errs []error
	for _, shutdown := range m.shutdownFuncs {
		errs = append(errs, shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
