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
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Meter names.
const (
	MeterNameWorkflow = "flow_workflow"
	MeterNameIngest   = "flow_ingest"
)

// Metric names.
const (
	MetricWorkflowRunCnt        = "trpc_flow_go_workflow_run_cnt"
	MetricWorkflowRunDuration   = "trpc_flow_go_workflow_run_duration"
	MetricNodeExecutionCnt      = "trpc_flow_go_node_execution_cnt"
	MetricNodeExecutionDuration = "trpc_flow_go_node_execution_duration"
	MetricIngestDocumentCnt     = "trpc_flow_go_ingest_document_cnt"
	MetricIngestChunkCnt        = "trpc_flow_go_ingest_chunk_cnt"
	MetricIngestDuration        = "trpc_flow_go_ingest_duration"
)

// Package-level instruments default to no-op implementations so that
// recording is always safe. telemetry/metric swaps in real instruments
// when a meter provider is configured.
var (
	// MeterProvider is the configured provider, no-op until initialized.
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()

	// WorkflowRunCnt counts workflow runs, labelled by success.
	WorkflowRunCnt metric.Int64Counter = noop.Int64Counter{}
	// WorkflowRunDuration measures end-to-end run latency in seconds.
	WorkflowRunDuration metric.Float64Histogram = noop.Float64Histogram{}
	// NodeExecutionCnt counts node executions, labelled by kind and success.
	NodeExecutionCnt metric.Int64Counter = noop.Int64Counter{}
	// NodeExecutionDuration measures per-node latency in seconds.
	NodeExecutionDuration metric.Float64Histogram = noop.Float64Histogram{}
	// IngestDocumentCnt counts documents ingested into collections.
	IngestDocumentCnt metric.Int64Counter = noop.Int64Counter{}
	// IngestChunkCnt counts chunks produced during ingestion.
	IngestChunkCnt metric.Int64Counter = noop.Int64Counter{}
	// IngestDuration measures per-document ingestion latency in seconds.
	IngestDuration metric.Float64Histogram = noop.Float64Histogram{}
)

// IncWorkflowRunCnt records one workflow run.
func IncWorkflowRunCnt(ctx context.Context, workflowID string, success bool) {
	WorkflowRunCnt.Add(ctx, 1, metric.WithAttributes(
		stringAttr(KeyWorkflowID, workflowID),
		boolAttr(KeySuccess, success),
	))
}

// RecordWorkflowRunDuration records the wall time of one workflow run.
func RecordWorkflowRunDuration(ctx context.Context, workflowID string, success bool, d time.Duration) {
	WorkflowRunDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		stringAttr(KeyWorkflowID, workflowID),
		boolAttr(KeySuccess, success),
	))
}

// IncNodeExecutionCnt records one node execution.
func IncNodeExecutionCnt(ctx context.Context, kind, nodeID string, success bool) {
	NodeExecutionCnt.Add(ctx, 1, metric.WithAttributes(
		stringAttr(KeyNodeKind, kind),
		stringAttr(KeyNodeID, nodeID),
		boolAttr(KeySuccess, success),
	))
}

// RecordNodeExecutionDuration records the wall time of one node execution.
func RecordNodeExecutionDuration(ctx context.Context, kind, nodeID string, d time.Duration) {
	NodeExecutionDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		stringAttr(KeyNodeKind, kind),
		stringAttr(KeyNodeID, nodeID),
	))
}

// IncIngestDocumentCnt records one ingested document and its chunk count.
func IncIngestDocumentCnt(ctx context.Context, collection string, chunks int) {
	attrs := metric.WithAttributes(stringAttr(KeyCollection, collection))
	IngestDocumentCnt.Add(ctx, 1, attrs)
	IngestChunkCnt.Add(ctx, int64(chunks), attrs)
}

// RecordIngestDuration records the wall time of one document ingestion.
func RecordIngestDuration(ctx context.Context, collection string, d time.Duration) {
	IngestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		stringAttr(KeyCollection, collection),
	))
}
