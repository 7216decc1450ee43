// SPDX-License-Identifier: MPL-2.0

// Package tracing builds the OpenTelemetry tracer used around resolution,
// load and include operations.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName is the default service.name resource attribute.
const ServiceName = "nsload"

const (
	// ExporterNone keeps spans in process; useful for correlation only.
	ExporterNone = "none"
	// ExporterStdout pretty-prints finished spans.
	ExporterStdout = "stdout"
)

// Span attribute keys.
const (
	AttrIdentifier = "nsload.identifier"
	AttrPrefix     = "nsload.prefix"
	AttrPath       = "nsload.path"
	AttrBindingID  = "nsload.binding.id"
	AttrMember     = "nsload.member"
	AttrLoaded     = "nsload.loaded"
)

type (
	// Config configures the tracing subsystem.
	Config struct {
		// Enabled controls whether tracing is active. When false a no-op
		// tracer is returned.
		Enabled bool
		// Exporter is "none" or "stdout".
		Exporter string
		// ServiceName defaults to ServiceName.
		ServiceName string
		// Writer receives stdout exporter output. Defaults to os.Stdout.
		Writer io.Writer
	}

	// Provider wraps the tracer provider and its shutdown.
	Provider struct {
		provider *sdktrace.TracerProvider
		tracer   trace.Tracer
	}
)

// Noop returns a tracer that records nothing.
func Noop() trace.Tracer {
	return noop.NewTracerProvider().Tracer(ServiceName)
}

// NewProvider creates the tracer provider described by cfg.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: Noop()}, nil
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		exporter = exp
	case ExporterNone, "":
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	name := cfg.ServiceName
	if name == "" {
		name = ServiceName
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}
	provider := sdktrace.NewTracerProvider(opts...)

	return &Provider{provider: provider, tracer: provider.Tracer(name)}, nil
}

// Tracer returns the configured tracer. It is never nil.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.provider != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

// RecordError marks span as failed when err is non-nil.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
