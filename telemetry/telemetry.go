// SPDX-License-Identifier: MIT

// Package telemetry installs the global OpenTelemetry tracer and meter
// providers. After Init, otel.Tracer and otel.Meter anywhere in the process
// report through the configured exporters.
//
// Trace exporters: "otlp" (gRPC), "stdout", "none".
// Metric exporters: "prometheus" (served by promhttp on /metrics), "stdout", "none".
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/katalvlaran/mrio/config"
)

var (
	// ErrNilContext indicates Init was called with a nil context.
	ErrNilContext = errors.New("telemetry: context is nil")

	// ErrUnknownExporter indicates an unsupported exporter name.
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")
)

// ShutdownFunc flushes and stops the providers.
type ShutdownFunc func(context.Context) error

type options struct {
	version    string
	writer     io.Writer
	registerer prometheus.Registerer
}

// Option configures Init.
type Option func(*options)

// WithVersion sets service.version on the resource.
func WithVersion(v string) Option { return func(o *options) { o.version = v } }

// WithWriter redirects the stdout exporters. Default os.Stderr, so command
// output on stdout stays clean.
func WithWriter(w io.Writer) Option {
	if w == nil {
		panic("telemetry: WithWriter(nil)")
	}
	return func(o *options) { o.writer = w }
}

// WithRegisterer sets where the Prometheus exporter registers.
// Default prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	if r == nil {
		panic("telemetry: WithRegisterer(nil)")
	}
	return func(o *options) { o.registerer = r }
}

// Init sets up the global providers described by cfg.
// Implementation:
//   - Stage 1: build the service resource.
//   - Stage 2: tracer provider with a batching exporter, unless "none".
//   - Stage 3: meter provider, unless "none".
//
// The returned ShutdownFunc must be called on exit; it is never nil on success.
func Init(ctx context.Context, cfg config.TelemetryConfig, opts ...Option) (ShutdownFunc, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	o := options{version: "dev", writer: os.Stderr, registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	res := resource.NewWithAttributes("",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", o.version),
	)

	if cfg.TraceExporter != "none" {
		tp, err := newTracerProvider(ctx, cfg, o, res)
		if err != nil {
			return nil, fmt.Errorf("telemetry: tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.MetricExporter != "none" {
		mp, err := newMeterProvider(cfg, o, res)
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("telemetry: meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return shutdown, nil
}

func newTracerProvider(ctx context.Context, cfg config.TelemetryConfig, o options, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch cfg.TraceExporter {
	case "otlp":
		gopts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			gopts = append(gopts, otlptracegrpc.WithInsecure())
		}
		exp, err = otlptracegrpc.New(ctx, gopts...)
	case "stdout":
		exp, err = stdouttrace.New(stdouttrace.WithWriter(o.writer))
	default:
		return nil, fmt.Errorf("%w: trace %q", ErrUnknownExporter, cfg.TraceExporter)
	}
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	), nil
}

func newMeterProvider(cfg config.TelemetryConfig, o options, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	switch cfg.MetricExporter {
	case "prometheus":
		exp, err := promexporter.New(promexporter.WithRegisterer(o.registerer))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(exp)), nil
	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(o.writer))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		), nil
	default:
		return nil, fmt.Errorf("%w: metric %q", ErrUnknownExporter, cfg.MetricExporter)
	}
}
