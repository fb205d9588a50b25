//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package workflow

// ExecutionOrder returns the node ids in topological order using Kahn's
// algorithm. Nodes that become eligible at the same time are processed in
// node declaration order, so the result is deterministic for a given
// workflow. It is defined for validated workflows; a cycle that slipped
// past validation is reported as ErrCycleDetected.
func (w *Workflow) ExecutionOrder() ([]string, error) {
	adj := w.adjacency()
	inDegree := make(map[string]int, len(w.Nodes))
	for _, n := range w.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range w.Edges {
		inDegree[e.Target]++
	}

	queue := make([]string, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(w.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, next := range adj[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(w.Nodes) {
		return nil, ErrCycleDetected
	}
	return order, nil
}
