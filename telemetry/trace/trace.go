//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package trace provides distributed tracing functionality for the trpc-flow-go framework.
// It integrates with OpenTelemetry to provide comprehensive tracing capabilities.
package trace

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	itelemetry "trpc.group/trpc-go/trpc-flow-go/internal/telemetry"
)

var (
	// Tracer is the tracer used by the framework. It produces no-op spans
	// until Start installs an SDK tracer provider.
	Tracer oteltrace.Tracer = otel.Tracer(itelemetry.InstrumentName)

	// TracerProvider is the active tracer provider, no-op until Start is called.
	TracerProvider oteltrace.TracerProvider = noop.NewTracerProvider()
)

// Start sets up the global OpenTelemetry trace exporter and tracer provider.
// The returned clean function flushes buffered spans and should be called on shutdown.
// The environment variables described below can be used for Endpoint configuration.
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_TRACES_ENDPOINT (default: "localhost:4317")
// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	// Set default options
	options := &options{
		serviceName:      itelemetry.ServiceName,
		serviceVersion:   itelemetry.ServiceVersion,
		serviceNamespace: itelemetry.ServiceNamespace,
		protocol:         itelemetry.ProtocolGRPC, // Default to gRPC
	}
	for _, opt := range opts {
		opt(options)
	}

	// Set endpoint based on protocol if not explicitly set
	if options.tracesEndpoint == "" {
		options.tracesEndpoint = tracesEndpoint(options.protocol)
	}

	res, err := buildResource(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var tracerProvider *sdktrace.TracerProvider
	switch options.protocol {
	case itelemetry.ProtocolHTTP:
		tracerProvider, err = newHTTPTracerProvider(ctx, res, options)
	default:
		tracerProvider, err = newGRPCTracerProvider(ctx, res, options)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	TracerProvider = tracerProvider
	Tracer = tracerProvider.Tracer(itelemetry.InstrumentName)

	return func() error {
		return tracerProvider.Shutdown(context.Background())
	}, nil
}

func tracesEndpoint(protocol string) string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}

	// Return different default endpoints based on protocol
	switch protocol {
	case itelemetry.ProtocolHTTP:
		return "localhost:4318" // HTTP endpoint base URL (otlptracehttp will add /v1/traces automatically)
	default:
		return "localhost:4317" // gRPC endpoint (host:port)
	}
}

// parseEndpointURL splits a collector URL into the host:port endpoint and the
// URL path expected by the OTLP HTTP exporter. The scheme is optional; a
// missing path becomes "/".
func parseEndpointURL(raw string) (endpoint, urlPath string, err error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse endpoint URL: %w", err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("endpoint URL %q has no host", raw)
	}
	urlPath = u.Path
	if urlPath == "" {
		urlPath = "/"
	}
	return u.Host, urlPath, nil
}

// Initializes an OTLP HTTP exporter, and configures the corresponding tracer provider.
func newHTTPTracerProvider(ctx context.Context, res *resource.Resource, options *options) (*sdktrace.TracerProvider, error) {
	var httpOpts []otlptracehttp.Option
	if options.tracesEndpointURL != "" {
		endpoint, urlPath, err := parseEndpointURL(options.tracesEndpointURL)
		if err != nil {
			return nil, err
		}
		httpOpts = append(httpOpts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithURLPath(urlPath))
		if !strings.HasPrefix(options.tracesEndpointURL, "https://") {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
	} else {
		httpOpts = append(httpOpts, otlptracehttp.WithEndpoint(options.tracesEndpoint), otlptracehttp.WithInsecure())
	}
	if len(options.headers) > 0 {
		httpOpts = append(httpOpts, otlptracehttp.WithHeaders(options.headers))
	}

	traceExporter, err := otlptracehttp.New(ctx, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP traces exporter: %w", err)
	}

	return newTracerProvider(res, traceExporter), nil
}

// Initializes an OTLP gRPC exporter, and configures the corresponding tracer provider.
func newGRPCTracerProvider(ctx context.Context, res *resource.Resource, options *options) (*sdktrace.TracerProvider, error) {
	endpoint := options.tracesEndpoint
	if options.tracesEndpointURL != "" {
		host, _, err := parseEndpointURL(options.tracesEndpointURL)
		if err != nil {
			return nil, err
		}
		endpoint = host
	}

	tracesConn, err := itelemetry.NewGRPCConn(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create traces connection: %w", err)
	}

	grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithGRPCConn(tracesConn)}
	if len(options.headers) > 0 {
		grpcOpts = append(grpcOpts, otlptracegrpc.WithHeaders(options.headers))
	}

	traceExporter, err := otlptracegrpc.New(ctx, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create traces exporter: %w", err)
	}

	return newTracerProvider(res, traceExporter), nil
}

func newTracerProvider(res *resource.Resource, exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
}

// Option is a function that configures trace options.
type Option func(*options)

// options holds the configuration options for trace.
type options struct {
	tracesEndpoint     string
	tracesEndpointURL  string
	headers            map[string]string
	serviceName        string
	serviceVersion     string
	serviceNamespace   string
	protocol           string // Protocol to use (grpc or http)
	resourceAttributes *[]attribute.KeyValue
}

// WithEndpoint sets the traces endpoint(host and port) the Exporter will connect to.
// The provided endpoint should resemble "example.com:4317" (no scheme or path).
// If the OTEL_EXPORTER_OTLP_ENDPOINT or OTEL_EXPORTER_OTLP_TRACES_ENDPOINT environment variable is set,
// and this option is not passed, that variable value will be used.
// If both environment variables are set, OTEL_EXPORTER_OTLP_TRACES_ENDPOINT will take precedence.
// If an environment variable is set, and this option is passed, this option will take precedence.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.tracesEndpoint = endpoint
	}
}

// WithEndpointURL sets the full collector URL the Exporter will send spans to,
// including scheme and path, e.g. "http://collector:4318/otlp/v1/traces".
// It takes precedence over WithEndpoint.
func WithEndpointURL(endpointURL string) Option {
	return func(opts *options) {
		opts.tracesEndpointURL = endpointURL
	}
}

// WithHeaders sets additional headers sent with every export request,
// e.g. authentication tokens.
func WithHeaders(headers map[string]string) Option {
	return func(opts *options) {
		opts.headers = headers
	}
}

// WithProtocol sets the protocol to use for traces export.
// Supported protocols are "grpc" (default) and "http".
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}

// WithServiceName overrides the service.name resource attribute.
func WithServiceName(serviceName string) Option {
	return func(opts *options) {
		opts.serviceName = serviceName
	}
}

// WithServiceNamespace overrides the service.namespace resource attribute.
func WithServiceNamespace(serviceNamespace string) Option {
	return func(opts *options) {
		opts.serviceNamespace = serviceNamespace
	}
}

// WithServiceVersion overrides the service.version resource attribute.
func WithServiceVersion(serviceVersion string) Option {
	return func(opts *options) {
		opts.serviceVersion = serviceVersion
	}
}

// WithResourceAttributes appends custom resource attributes.
func WithResourceAttributes(attrs ...attribute.KeyValue) Option {
	return func(opts *options) {
		if len(attrs) == 0 {
			return
		}
		if opts.resourceAttributes == nil {
			opts.resourceAttributes = &[]attribute.KeyValue{}
		}
		*opts.resourceAttributes = append(*opts.resourceAttributes, attrs...)
	}
}

func buildResource(ctx context.Context, options *options) (*resource.Resource, error) {
	// Build resource with options values
	resourceOpts := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNamespace(options.serviceNamespace),
			semconv.ServiceName(options.serviceName),
			semconv.ServiceVersion(options.serviceVersion),
		),
		resource.WithFromEnv(),
		resource.WithHost(),         // Adds host.name
		resource.WithTelemetrySDK(), // Adds telemetry.sdk.{name,language,version}
	}

	// Append custom resource attributes
	if options.resourceAttributes != nil && len(*options.resourceAttributes) > 0 {
		resourceOpts = append(resourceOpts, resource.WithAttributes(*options.resourceAttributes...))
	}

	return resource.New(ctx, resourceOpts...)
}
