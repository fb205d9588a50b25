//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides shared telemetry identifiers and helpers.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Service identity reported on every exported span and metric.
const (
	// ServiceName is the logical service name.
	ServiceName = "trpc-flow-go"
	// ServiceVersion is the reported version of the service.
	ServiceVersion = "v0.1.0"
	// ServiceNamespace groups the service with its tRPC siblings.
	ServiceNamespace = "trpc-go"
	// InstrumentName scopes all tracers and meters created by this module.
	InstrumentName = "trpc.flow.go"
)

// Span operation names.
const (
	OperationRunWorkflow   = "run_workflow"
	OperationExecuteNode   = "execute_node"
	OperationIngestSource  = "ingest_source"
	OperationEmbedQuery    = "embed_query"
	OperationSearchStore   = "search_store"
	OperationGenerateModel = "generate_model"
)

// Attribute keys attached to spans and metrics.
const (
	KeyWorkflowID   = "flow.workflow.id"
	KeyNodeID       = "flow.node.id"
	KeyNodeKind     = "flow.node.kind"
	KeyCollection   = "flow.collection"
	KeyDocumentID   = "flow.document.id"
	KeySessionID    = "flow.session.id"
	KeySuccess      = "flow.success"
	KeyModelName    = "flow.model.name"
	KeyErrorType    = "error.type"
	KeyErrorMessage = "error.message"
)

// NewNodeSpanName builds the span name for a single node execution,
// e.g. "execute_node llm_engine retrieval-1".
func NewNodeSpanName(kind, nodeID string) string {
	return fmt.Sprintf("%s %s %s", OperationExecuteNode, kind, nodeID)
}

// NewWorkflowSpanName builds the span name for a workflow run.
func NewWorkflowSpanName(workflowID string) string {
	if workflowID == "" {
		return OperationRunWorkflow
	}
	return fmt.Sprintf("%s %s", OperationRunWorkflow, workflowID)
}

func boolAttr(key string, value bool) attribute.KeyValue {
	return attribute.Bool(key, value)
}

func stringAttr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}
