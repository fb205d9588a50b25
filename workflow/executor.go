//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package workflow

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	itelemetry "trpc.group/trpc-go/trpc-flow-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/embedder"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-flow-go/log"
	"trpc.group/trpc-go/trpc-flow-go/model"
	"trpc.group/trpc-go/trpc-flow-go/websearch"
)

// Executor runs workflows against a fixed provider set. It holds only
// immutable provider references, so a single Executor may serve any number
// of concurrent runs; each run instantiates its own components and payload.
type Executor struct {
	embedder     embedder.Embedder
	vectorStore  vectorstore.VectorStore
	model        model.Model
	searchClient websearch.Client
}

// Option configures an Executor.
type Option func(*Executor)

// WithEmbedder sets the embedder used by knowledge base components.
func WithEmbedder(e embedder.Embedder) Option {
	return func(ex *Executor) {
		ex.embedder = e
	}
}

// WithVectorStore sets the vector store used by knowledge base components.
func WithVectorStore(vs vectorstore.VectorStore) Option {
	return func(ex *Executor) {
		ex.vectorStore = vs
	}
}

// WithModel sets the chat model used by LLM engine components.
func WithModel(m model.Model) Option {
	return func(ex *Executor) {
		ex.model = m
	}
}

// WithSearchClient sets the web-search client used by LLM engine
// components when web search is enabled.
func WithSearchClient(c websearch.Client) Option {
	return func(ex *Executor) {
		ex.searchClient = c
	}
}

// New creates an Executor with the given options. Components whose
// provider is left unset fail at execution time, not at construction.
func New(opt ...Option) *Executor {
	e := &Executor{}
	for _, o := range opt {
		o(e)
	}
	return e
}

// Run executes the workflow against the query: validate, resolve the
// execution order, then run each component in sequence, threading one
// payload through the chain. Failures are reported in the result rather
// than as an error, so callers always receive the trace accumulated up to
// the failing node.
func (e *Executor) Run(ctx context.Context, w *Workflow, query string) *Result {
	workflowID := "unknown"
	if w != nil && w.ID != "" {
		workflowID = w.ID
	}
	log.Infof("Executing workflow %s with query: %.100s...", workflowID, query)

	ctx, span := itelemetry.Tracer.Start(
		ctx,
		itelemetry.NewWorkflowSpanName(workflowID),
		trace.WithAttributes(attribute.String(itelemetry.KeyWorkflowID, workflowID)),
	)
	defer span.End()

	start := time.Now()
	rst := e.run(ctx, w, query)
	if !rst.Success {
		itelemetry.TraceError(span, "workflow_error", rst.Error)
	}
	itelemetry.IncWorkflowRunCnt(ctx, workflowID, rst.Success)
	itelemetry.RecordWorkflowRunDuration(ctx, workflowID, rst.Success, time.Since(start))
	return rst
}

func (e *Executor) run(ctx context.Context, w *Workflow, query string) *Result {
	entries := make([]TraceEntry, 0)

	if err := w.Validate(); err != nil {
		log.Errorf("Workflow validation failed: %v", err)
		return &Result{Error: err.Error(), Trace: entries}
	}
	order, err := w.ExecutionOrder()
	if err != nil {
		log.Errorf("Workflow validation failed: %v", err)
		return &Result{Error: err.Error(), Trace: entries}
	}
	log.Infof("Execution order: %v", order)

	components := make(map[string]Component, len(w.Nodes))
	for i := range w.Nodes {
		node := &w.Nodes[i]
		component, err := e.newComponent(node)
		if err != nil {
			log.Errorf("Error initializing component %s: %v", node.ID, err)
			return &Result{Error: err.Error(), Trace: entries}
		}
		components[node.ID] = component
	}

	current := Payload{KeyQuery: query}
	for _, nodeID := range order {
		component := components[nodeID]
		entries = append(entries, newTraceEntry(nodeID, PhaseStarted, current.preview()))
		log.Infof("Executing component: %s (%s)", nodeID, component.Kind())

		next, err := e.executeNode(ctx, nodeID, component, current)
		if err != nil {
			entries = append(entries, newTraceEntry(nodeID, PhaseFailed, truncate(err.Error(), maxPreviewLen)))
			log.Errorf("Error executing workflow: %v", err)
			return &Result{
				Error: fmt.Sprintf("component %s: %v", nodeID, err),
				Trace: entries,
			}
		}
		entries = append(entries, newTraceEntry(nodeID, PhaseCompleted, next.preview()))
		current = next
	}

	log.Infof("Workflow execution completed successfully")
	return &Result{
		Success:      true,
		Output:       finalOutput(current),
		Trace:        entries,
		FinalPayload: current,
	}
}

// executeNode runs one component inside its own span and records the
// per-node metrics.
func (e *Executor) executeNode(ctx context.Context, nodeID string, component Component, payload Payload) (Payload, error) {
	kind := component.Kind().String()
	ctx, span := itelemetry.Tracer.Start(
		ctx,
		itelemetry.NewNodeSpanName(kind, nodeID),
		trace.WithAttributes(
			attribute.String(itelemetry.KeyNodeID, nodeID),
			attribute.String(itelemetry.KeyNodeKind, kind),
		),
	)
	defer span.End()

	start := time.Now()
	next, err := component.Execute(ctx, payload)
	itelemetry.IncNodeExecutionCnt(ctx, kind, nodeID, err == nil)
	itelemetry.RecordNodeExecutionDuration(ctx, kind, nodeID, time.Since(start))
	if err != nil {
		itelemetry.TraceError(span, "node_error", err.Error())
	}
	return next, err
}

// finalOutput extracts the user-facing answer from the last payload,
// preferring response over output over a rendering of the whole payload.
// Presence decides, not emptiness: an empty response string wins over a
// populated output value.
func finalOutput(p Payload) string {
	if v, ok := p[KeyResponse]; ok {
		return stringValue(v)
	}
	if v, ok := p[KeyOutput]; ok {
		return stringValue(v)
	}
	return fmt.Sprintf("%v", p)
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
