//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package workflow

import "fmt"

// Validate checks the structure of the workflow and returns nil when it is
// runnable. Checks run in a fixed order and stop at the first failure:
// non-empty, connected, known node types, no dangling edges, acyclic, and
// finally the presence of an input and an output component.
//
// The shape check only requires that input and output components exist; it
// does not verify that they are connected by a path.
func (w *Workflow) Validate() error {
	if w == nil || len(w.Nodes) == 0 {
		return ErrEmptyWorkflow
	}
	if len(w.Nodes) > 1 && len(w.Edges) == 0 {
		return ErrNotConnected
	}

	nodeIDs := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		if n.Type == "" {
			return fmt.Errorf("component %s is missing a type", n.ID)
		}
		if _, ok := KindOf(n.Type); !ok {
			return fmt.Errorf("invalid component type: %s", n.Type)
		}
		nodeIDs[n.ID] = true
	}

	for _, e := range w.Edges {
		if !nodeIDs[e.Source] {
			return fmt.Errorf("edge references unknown component: %s", e.Source)
		}
		if !nodeIDs[e.Target] {
			return fmt.Errorf("edge references unknown component: %s", e.Target)
		}
	}

	if w.hasCycle() {
		return ErrCycleDetected
	}

	var hasInput, hasOutput bool
	for _, n := range w.Nodes {
		kind, _ := KindOf(n.Type)
		switch kind {
		case KindUserQuery:
			hasInput = true
		case KindOutput:
			hasOutput = true
		}
	}
	if !hasInput || !hasOutput {
		return ErrMissingEndpoints
	}
	return nil
}

// Node colors for the iterative cycle check.
const (
	colorWhite = iota // not yet visited
	colorGray         // on the current path
	colorBlack        // fully explored
)

// hasCycle reports whether the directed graph contains a cycle. The
// depth-first search is iterative with an explicit stack, so deep graphs
// cannot exhaust the call stack.
func (w *Workflow) hasCycle() bool {
	adj := w.adjacency()
	color := make(map[string]int, len(w.Nodes))
	for _, n := range w.Nodes {
		if color[n.ID] != colorWhite {
			continue
		}
		stack := []string{n.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			if color[id] == colorWhite {
				color[id] = colorGray
				for _, next := range adj[id] {
					if color[next] == colorGray {
						return true
					}
					if color[next] == colorWhite {
						stack = append(stack, next)
					}
				}
				continue
			}
			// All successors explored.
			color[id] = colorBlack
			stack = stack[:len(stack)-1]
		}
	}
	return false
}
