// pkg/observability/tracing.go
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/logging"
)

// InitTracing installs a global tracer provider according to cfg and
// returns a shutdown function that flushes pending spans. Spans are written
// to w; nil means stdout. With tracing disabled a noop provider is installed.
func InitTracing(ctx context.Context, cfg config.ObservabilityConfig, w io.Writer, log *logging.Logger) (func(context.Context) error, error) {
	if log == nil {
		log = logging.NewDiscardLogger()
	}

	if !cfg.TracingEnabled || strings.EqualFold(cfg.TracingExporter, "none") {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Debug(ctx, "tracing disabled; using noop tracer provider")
		return func(context.Context) error { return nil }, nil
	}

	exp, err := exporterFromConfig(cfg, w)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.namespace", "ksp2d"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info(ctx, "tracing enabled",
		"exporter", cfg.TracingExporter,
		"service_name", cfg.ServiceName,
		"sampler", fmt.Sprintf("parentbased_traceidratio_%0.2f", cfg.SampleRatio),
	)
	return tp.Shutdown, nil
}

func exporterFromConfig(cfg config.ObservabilityConfig, w io.Writer) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.TracingExporter) {
	case "stdout", "":
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
			stdouttrace.WithoutTimestamps(),
		)
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.TracingExporter)
	}
}

// ShutdownWithTimeout invokes shutdown with a bounded timeout, logging
// rather than returning any error
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, log *logging.Logger) {
	if shutdown == nil {
		return
	}
	if log == nil {
		log = logging.NewDiscardLogger()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn(ctx, "tracing shutdown failed", "error", err.Error())
	}
}
