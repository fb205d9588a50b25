//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flow-go/storage"
)

func TestCreateAndGetWorkflow(t *testing.T) {
	store := NewWorkflowStore()
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, &storage.Workflow{
		Name:        "RAG pipeline",
		Description: "query -> kb -> llm -> output",
		Nodes:       json.RawMessage(`[{"id":"a","type":"user_query"}]`),
		Edges:       json.RawMessage(`[]`),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "RAG pipeline", created.Name)
	assert.False(t, created.IsValid)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := store.GetWorkflow(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.JSONEq(t, `[{"id":"a","type":"user_query"}]`, string(got.Nodes))
}

func TestCreateWorkflowDefaultsDefinition(t *testing.T) {
	store := NewWorkflowStore()

	created, err := store.CreateWorkflow(context.Background(), &storage.Workflow{Name: "empty"})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(created.Nodes))
	assert.Equal(t, "[]", string(created.Edges))

	def, err := created.Definition()
	require.NoError(t, err)
	assert.Empty(t, def.Nodes)
}

func TestCreateWorkflowRequiresName(t *testing.T) {
	store := NewWorkflowStore()

	_, err := store.CreateWorkflow(context.Background(), &storage.Workflow{})
	assert.ErrorIs(t, err, storage.ErrNameRequired)
}

func TestGetWorkflowNotFound(t *testing.T) {
	store := NewWorkflowStore()

	_, err := store.GetWorkflow(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrWorkflowNotFound)
}

func TestListWorkflowsNewestFirst(t *testing.T) {
	store := NewWorkflowStore()
	ctx := context.Background()

	first, err := store.CreateWorkflow(ctx, &storage.Workflow{Name: "first"})
	require.NoError(t, err)
	second, err := store.CreateWorkflow(ctx, &storage.Workflow{Name: "second"})
	require.NoError(t, err)

	workflows, err := store.ListWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, second.ID, workflows[0].ID)
	assert.Equal(t, first.ID, workflows[1].ID)
}

func TestUpdateWorkflow(t *testing.T) {
	store := NewWorkflowStore()
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, &storage.Workflow{Name: "draft"})
	require.NoError(t, err)

	created.Name = "final"
	created.Nodes = json.RawMessage(`[{"id":"a","type":"input"}]`)
	created.IsValid = true
	updated, err := store.UpdateWorkflow(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Name)
	assert.True(t, updated.IsValid)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	got, err := store.GetWorkflow(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)
	assert.JSONEq(t, `[{"id":"a","type":"input"}]`, string(got.Nodes))
}

func TestUpdateWorkflowNotFound(t *testing.T) {
	store := NewWorkflowStore()

	_, err := store.UpdateWorkflow(context.Background(), &storage.Workflow{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, storage.ErrWorkflowNotFound)
}

func TestDeleteWorkflow(t *testing.T) {
	store := NewWorkflowStore()
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, &storage.Workflow{Name: "doomed"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteWorkflow(ctx, created.ID))
	_, err = store.GetWorkflow(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrWorkflowNotFound)

	workflows, err := store.ListWorkflows(ctx)
	require.NoError(t, err)
	assert.Empty(t, workflows)

	assert.ErrorIs(t, store.DeleteWorkflow(ctx, created.ID), storage.ErrWorkflowNotFound)
}

func TestReturnedWorkflowIsACopy(t *testing.T) {
	store := NewWorkflowStore()
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, &storage.Workflow{
		Name:  "iso",
		Nodes: json.RawMessage(`[{"id":"a","type":"output"}]`),
	})
	require.NoError(t, err)
	created.Nodes[0] = 'X'
	created.Name = "mutated"

	got, err := store.GetWorkflow(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "iso", got.Name)
	assert.Equal(t, byte('['), got.Nodes[0])
}

func TestWorkflowStorePingAndClose(t *testing.T) {
	store := NewWorkflowStore()
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
