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
	"fmt"
	"time"
)

// Payload is the evolving key-value data passed between components during
// a run. Components return a fresh payload instead of mutating their
// input, so no two steps ever share one.
type Payload map[string]any

// Clone returns a shallow copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	clone := make(Payload, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

// maxPreviewLen caps the snapshot text stored per trace entry.
const maxPreviewLen = 200

// preview renders a truncated snapshot of the payload for trace entries.
func (p Payload) preview() string {
	if len(p) == 0 {
		return ""
	}
	return truncate(fmt.Sprintf("%v", p), maxPreviewLen)
}

// truncate limits s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Phase labels one step of the execution trace.
type Phase string

// Trace phases recorded per node.
const (
	PhaseStarted   Phase = "started"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// TraceEntry is one start, complete or fail event of a run.
type TraceEntry struct {
	// NodeID is the node the entry belongs to.
	NodeID string `json:"node_id"`

	// Status is the phase the node entered.
	Status Phase `json:"status"`

	// Timestamp is when the phase was recorded.
	Timestamp time.Time `json:"timestamp"`

	// DataPreview is a truncated snapshot of the payload, or of the error
	// message for failed entries.
	DataPreview string `json:"data_preview,omitempty"`
}

func newTraceEntry(nodeID string, status Phase, preview string) TraceEntry {
	return TraceEntry{
		NodeID:      nodeID,
		Status:      status,
		Timestamp:   time.Now(),
		DataPreview: preview,
	}
}

// Result is the outcome of one workflow run. A run either completes every
// node or fails at the first failing one; Trace records how far it got.
type Result struct {
	// Success reports whether every node completed.
	Success bool `json:"success"`

	// Output is the final answer extracted from the last payload.
	Output string `json:"output"`

	// Error holds the failure reason when Success is false.
	Error string `json:"error,omitempty"`

	// Trace is the ordered per-node execution log.
	Trace []TraceEntry `json:"execution_log"`

	// FinalPayload is the payload produced by the last component.
	FinalPayload Payload `json:"full_output,omitempty"`
}
