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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       *Workflow
		wantErr string
	}{
		{
			name: "valid chain",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b", Type: "knowledge_base"},
					{ID: "c", Type: "llm_engine"},
					{ID: "d", Type: "output"},
				},
				Edges: []Edge{
					{Source: "a", Target: "b"},
					{Source: "b", Target: "c"},
					{Source: "c", Target: "d"},
				},
			},
		},
		{
			name: "valid with alias types",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "input"},
					{ID: "b", Type: "LLM"},
					{ID: "c", Type: "Output"},
				},
				Edges: []Edge{
					{Source: "a", Target: "b"},
					{Source: "b", Target: "c"},
				},
			},
		},
		{
			name:    "no nodes",
			w:       &Workflow{},
			wantErr: "workflow must have at least one component",
		},
		{
			name: "multiple nodes without edges",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b", Type: "output"},
				},
			},
			wantErr: "workflow components must be connected",
		},
		{
			name: "missing type",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b"},
				},
				Edges: []Edge{{Source: "a", Target: "b"}},
			},
			wantErr: "component b is missing a type",
		},
		{
			name: "unknown type",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b", Type: "transformer"},
				},
				Edges: []Edge{{Source: "a", Target: "b"}},
			},
			wantErr: "invalid component type: transformer",
		},
		{
			name: "dangling edge source",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b", Type: "output"},
				},
				Edges: []Edge{{Source: "x", Target: "b"}},
			},
			wantErr: "edge references unknown component: x",
		},
		{
			name: "dangling edge target",
			w: &Workflow{
				Nodes: []Node{{ID: "a", Type: "user_query"}},
				Edges: []Edge{{Source: "a", Target: "b"}},
			},
			wantErr: "edge references unknown component: b",
		},
		{
			name: "self cycle",
			w: &Workflow{
				Nodes: []Node{{ID: "a", Type: "user_query"}},
				Edges: []Edge{{Source: "a", Target: "a"}},
			},
			wantErr: "workflow contains a cycle",
		},
		{
			name: "two node cycle",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b", Type: "output"},
				},
				Edges: []Edge{
					{Source: "a", Target: "b"},
					{Source: "b", Target: "a"},
				},
			},
			wantErr: "workflow contains a cycle",
		},
		{
			name: "cycle behind valid prefix",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b", Type: "llm_engine"},
					{ID: "c", Type: "knowledge_base"},
					{ID: "d", Type: "output"},
				},
				Edges: []Edge{
					{Source: "a", Target: "b"},
					{Source: "b", Target: "c"},
					{Source: "c", Target: "b"},
					{Source: "b", Target: "d"},
				},
			},
			wantErr: "workflow contains a cycle",
		},
		{
			name: "missing output component",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "user_query"},
					{ID: "b", Type: "llm_engine"},
				},
				Edges: []Edge{{Source: "a", Target: "b"}},
			},
			wantErr: "workflow must have input and output components",
		},
		{
			name: "missing input component",
			w: &Workflow{
				Nodes: []Node{
					{ID: "a", Type: "llm_engine"},
					{ID: "b", Type: "output"},
				},
				Edges: []Edge{{Source: "a", Target: "b"}},
			},
			wantErr: "workflow must have input and output components",
		},
		{
			// The shape check only requires presence: an input and an
			// output that are not connected by a path still validate.
			name: "input and output on separate branches",
			w: &Workflow{
				Nodes: []Node{
					{ID: "in", Type: "user_query"},
					{ID: "kb", Type: "knowledge_base"},
					{ID: "llm", Type: "llm_engine"},
					{ID: "out", Type: "output"},
				},
				Edges: []Edge{
					{Source: "in", Target: "kb"},
					{Source: "llm", Target: "out"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateSentinels(t *testing.T) {
	var w *Workflow
	require.ErrorIs(t, w.Validate(), ErrEmptyWorkflow)
	require.ErrorIs(t, (&Workflow{}).Validate(), ErrEmptyWorkflow)

	disconnected := &Workflow{Nodes: []Node{
		{ID: "a", Type: "user_query"},
		{ID: "b", Type: "output"},
	}}
	require.ErrorIs(t, disconnected.Validate(), ErrNotConnected)

	cyclic := &Workflow{
		Nodes: []Node{{ID: "a", Type: "user_query"}},
		Edges: []Edge{{Source: "a", Target: "a"}},
	}
	require.ErrorIs(t, cyclic.Validate(), ErrCycleDetected)

	noOutput := &Workflow{Nodes: []Node{{ID: "a", Type: "user_query"}}}
	require.ErrorIs(t, noOutput.Validate(), ErrMissingEndpoints)
}
