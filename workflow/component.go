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
)

// Component executes one node's logic for a single run. Components are
// instantiated fresh per run and hold no state across invocations:
// Execute is a pure function of the input payload and the node config.
type Component interface {
	// Kind returns the canonical kind of the component.
	Kind() NodeKind

	// Execute processes the current payload and returns the payload handed
	// to the next component in the chain.
	Execute(ctx context.Context, payload Payload) (Payload, error)
}

// newComponent constructs the component for a node, backed by the
// executor's providers.
func (e *Executor) newComponent(node *Node) (Component, error) {
	kind, ok := KindOf(node.Type)
	if !ok {
		return nil, fmt.Errorf("invalid component type: %s", node.Type)
	}
	switch kind {
	case KindUserQuery:
		return newQueryIntake(node.ID), nil
	case KindKnowledgeBase:
		return newRetrieval(node.ID, node.Config, e.embedder, e.vectorStore), nil
	case KindLLMEngine:
		return newGeneration(node.ID, node.Config, e.model, e.searchClient), nil
	case KindOutput:
		return newOutput(node.ID, node.Config), nil
	default:
		return nil, fmt.Errorf("invalid component type: %s", node.Type)
	}
}
