//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flow-go/storage"
)

// openTestDB opens a real in-memory SQLite database, so these tests cover
// the actual schema and SQL rather than mock expectations.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWorkflowStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store, err := NewWorkflowStore(db)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := store.CreateWorkflow(ctx, &storage.Workflow{
		Name:        "support-bot",
		Description: "Answers from the product manual",
		Nodes:       json.RawMessage(`[{"id":"intake","type":"user_query"}]`),
		Edges:       json.RawMessage(`[]`),
		IsValid:     true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.GetWorkflow(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "support-bot", got.Name)
	assert.True(t, got.IsValid)
	assert.JSONEq(t, `[{"id":"intake","type":"user_query"}]`, string(got.Nodes))

	got.Name = "support-bot-v2"
	got.IsValid = false
	updated, err := store.UpdateWorkflow(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "support-bot-v2", updated.Name)
	assert.False(t, updated.IsValid)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	all, err := store.ListWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, store.DeleteWorkflow(ctx, created.ID))
	_, err = store.GetWorkflow(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrWorkflowNotFound)
	require.NoError(t, store.Ping(ctx))
}

func TestDocumentStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store, err := NewDocumentStore(db)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := store.CreateDocument(ctx, &storage.Document{
		Filename: "manual.pdf",
		FileSize: 2048,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Processed)

	processed, err := store.MarkDocumentProcessed(ctx, created.ID, 12, "doc_"+created.ID)
	require.NoError(t, err)
	assert.True(t, processed.Processed)
	assert.Equal(t, 12, processed.ChunkCount)
	assert.Equal(t, "doc_"+created.ID, processed.CollectionName)

	all, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "manual.pdf", all[0].Filename)

	require.NoError(t, store.DeleteDocument(ctx, created.ID))
	_, err = store.GetDocument(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

// Both stores share one database in the server wiring; make sure their
// schemas coexist on a single connection.
func TestStoresShareDatabase(t *testing.T) {
	db := openTestDB(t)
	workflows, err := NewWorkflowStore(db)
	require.NoError(t, err)
	documents, err := NewDocumentStore(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = workflows.CreateWorkflow(ctx, &storage.Workflow{Name: "wf"})
	require.NoError(t, err)
	_, err = documents.CreateDocument(ctx, &storage.Document{Filename: "f.pdf"})
	require.NoError(t, err)

	require.NoError(t, workflows.Ping(ctx))
	require.NoError(t, documents.Ping(ctx))
}
