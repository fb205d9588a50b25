//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package workflow implements the pipeline engine that powers flow runs.
//
// A workflow is a user-composed directed graph of nodes, each declaring one
// of four component kinds: query intake, knowledge base retrieval, LLM
// generation and output formatting. The package validates the graph,
// resolves a deterministic execution order and runs the components in that
// order, threading a single payload through the chain.
package workflow

import "strings"

// NodeKind identifies one of the component kinds a node may declare.
type NodeKind string

// The canonical node kinds.
const (
	KindUserQuery     NodeKind = "user_query"
	KindKnowledgeBase NodeKind = "knowledge_base"
	KindLLMEngine     NodeKind = "llm_engine"
	KindOutput        NodeKind = "output"
)

// String returns the canonical name of the kind.
func (k NodeKind) String() string {
	return string(k)
}

// KindOf maps a node type string to its canonical kind. The match is
// case-insensitive and accepts the alias spellings used by authoring
// frontends, e.g. "userquery" and "input" both resolve to KindUserQuery.
func KindOf(nodeType string) (NodeKind, bool) {
	switch strings.ToLower(nodeType) {
	case "userquery", "user_query", "input":
		return KindUserQuery, true
	case "knowledgebase", "knowledge_base":
		return KindKnowledgeBase, true
	case "llmengine", "llm_engine", "llm":
		return KindLLMEngine, true
	case "output":
		return KindOutput, true
	default:
		return "", false
	}
}

// Node is one step in a workflow graph.
type Node struct {
	// ID uniquely identifies the node within its workflow.
	ID string `json:"id"`

	// Type declares the component kind. Any spelling recognized by KindOf
	// is accepted.
	Type string `json:"type"`

	// Config carries per-node options such as the model name or the
	// target collection.
	Config map[string]any `json:"config,omitempty"`
}

// Edge is a directed dependency between two nodes: Source runs before
// Target, and Target consumes Source's output payload.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Workflow is a pipeline definition: a set of nodes connected by directed
// edges. The engine never mutates a workflow once validation has started.
type Workflow struct {
	// ID identifies the workflow in logs and telemetry.
	ID string `json:"id,omitempty"`

	// Nodes is the set of pipeline steps. IDs must be unique.
	Nodes []Node `json:"nodes"`

	// Edges is the set of dependencies between nodes.
	Edges []Edge `json:"edges"`
}

// adjacency builds the successor list per node, preserving edge
// declaration order.
func (w *Workflow) adjacency() map[string][]string {
	adj := make(map[string][]string, len(w.Nodes))
	for _, n := range w.Nodes {
		adj[n.ID] = nil
	}
	for _, e := range w.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

// configString returns the string value for key, or def when the key is
// absent, empty or not a string.
func configString(config map[string]any, key, def string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return def
}

// configInt returns the integer value for key, or def when the key is
// absent or not numeric. JSON numbers decode as float64 and are truncated.
func configInt(config map[string]any, key string, def int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// configFloat returns the float value for key, or def when the key is
// absent or not numeric.
func configFloat(config map[string]any, key string, def float64) float64 {
	switch v := config[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// configBool returns the boolean value for key, or def when the key is
// absent or not a boolean.
func configBool(config map[string]any, key string, def bool) bool {
	if v, ok := config[key].(bool); ok {
		return v
	}
	return def
}
