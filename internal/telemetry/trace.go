//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Tracer is the module-wide tracer. It delegates to the global tracer
// provider, so spans become real once telemetry/trace is initialized and
// stay no-op otherwise.
var Tracer = otel.Tracer(InstrumentName)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// grpcDial is swapped out in tests.
var grpcDial = grpc.Dial

// NewGRPCConn creates a client connection to the given OTLP collector
// endpoint. The connection is insecure; production setups should front
// the collector with a local agent.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	return grpcDial(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// TraceError marks the span as failed and records the error message as
// span attributes.
func TraceError(span trace.Span, errType, errMsg string) {
	span.SetAttributes(
		stringAttr(KeyErrorType, errType),
		stringAttr(KeyErrorMessage, errMsg),
	)
}
