//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package pgvector

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
)

func TestVectorStoreInterface(t *testing.T) {
	var _ vectorstore.VectorStore = (*VectorStore)(nil)
}

func TestBuildConnString(t *testing.T) {
	tests := []struct {
		name     string
		option   options
		expected string
	}{
		{
			name: "full settings",
			option: options{
				host:     "db.example.com",
				port:     5433,
				user:     "flow",
				password: "secret",
				database: "flowdb",
				sslMode:  "require",
			},
			expected: "host=db.example.com port=5433 dbname=flowdb sslmode=require user=flow password=secret",
		},
		{
			name: "no credentials",
			option: options{
				host:     "localhost",
				port:     5432,
				database: "flowdb",
				sslMode:  "disable",
			},
			expected: "host=localhost port=5432 dbname=flowdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildConnString(tt.option))
		})
	}
}

func TestSanitizeCollection(t *testing.T) {
	tests := []struct {
		collection string
		expected   string
	}{
		{"kb_node1", "kb_node1"},
		{"doc_9b1e2c3d-4f56-7890-abcd-ef0123456789", "doc_9b1e2c3d_4f56_7890_abcd_ef0123456789"},
		{"My Collection", "my_collection"},
		{"UPPER", "upper"},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeCollection(tt.collection))
		})
	}
}

func TestTableName(t *testing.T) {
	vs := &VectorStore{option: defaultOptions}
	assert.Equal(t, "flow_kb_kb_node1", vs.tableName("kb_node1"))

	vs.option.tablePrefix = "custom_"
	assert.Equal(t, "custom_kb_node1", vs.tableName("kb_node1"))
}

func TestVectorStore_Upsert(t *testing.T) {
	vs, tc := newTestVectorStore(t, WithIndexDimension(3))
	defer tc.Close()

	// First upsert initializes the schema.
	tc.mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS vector").
		WillReturnResult(sqlmock.NewResult(0, 0))
	tc.mock.ExpectExec("CREATE TABLE IF NOT EXISTS flow_kb_kb_node").
		WillReturnResult(sqlmock.NewResult(0, 0))
	tc.mock.ExpectExec("CREATE INDEX IF NOT EXISTS flow_kb_kb_node_embedding_idx").
		WillReturnResult(sqlmock.NewResult(0, 0))
	tc.mock.ExpectExec("INSERT INTO flow_kb_kb_node").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := vs.Upsert(context.Background(), "kb_node", &vectorstore.Document{
		ID:       "kb_node_0",
		Content:  "chunk text",
		Vector:   []float64{0.1, 0.2, 0.3},
		Metadata: map[string]any{"filename": "a.pdf", "chunk_idx": 0},
	})
	require.NoError(t, err)

	// Second upsert reuses the initialized schema.
	tc.mock.ExpectExec("INSERT INTO flow_kb_kb_node").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = vs.Upsert(context.Background(), "kb_node", &vectorstore.Document{
		ID:      "kb_node_1",
		Content: "second chunk",
		Vector:  []float64{0.4, 0.5, 0.6},
	})
	require.NoError(t, err)

	tc.AssertExpectations(t)
}

func TestVectorStore_UpsertValidation(t *testing.T) {
	vs, tc := newTestVectorStore(t, WithIndexDimension(3))
	defer tc.Close()

	ctx := context.Background()

	err := vs.Upsert(ctx, "", &vectorstore.Document{ID: "a", Vector: []float64{1, 0, 0}})
	assert.ErrorIs(t, err, vectorstore.ErrEmptyCollectionName)

	err = vs.Upsert(ctx, "kb", &vectorstore.Document{Vector: []float64{1, 0, 0}})
	assert.ErrorIs(t, err, vectorstore.ErrEmptyDocumentID)

	err = vs.Upsert(ctx, "kb", &vectorstore.Document{ID: "a", Vector: []float64{1, 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")

	tc.AssertExpectations(t)
}

func TestVectorStore_UpsertSkipSchemaInit(t *testing.T) {
	vs, tc := newTestVectorStore(t, WithIndexDimension(3), WithSkipSchemaInit(true))
	defer tc.Close()

	// Only the insert is expected, no DDL.
	tc.mock.ExpectExec("INSERT INTO flow_kb_kb_node").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := vs.Upsert(context.Background(), "kb_node", &vectorstore.Document{
		ID:     "kb_node_0",
		Vector: []float64{0.1, 0.2, 0.3},
	})
	require.NoError(t, err)

	tc.AssertExpectations(t)
}

func TestVectorStore_CollectionExists(t *testing.T) {
	vs, tc := newTestVectorStore(t)
	defer tc.Close()

	tc.mock.ExpectQuery("SELECT EXISTS").
		WithArgs("flow_kb_kb_node").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := vs.CollectionExists(context.Background(), "kb_node")
	require.NoError(t, err)
	assert.True(t, exists)

	tc.mock.ExpectQuery("SELECT EXISTS").
		WithArgs("flow_kb_missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = vs.CollectionExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	tc.AssertExpectations(t)
}

func TestVectorStore_DeleteCollection(t *testing.T) {
	vs, tc := newTestVectorStore(t)
	defer tc.Close()

	tc.mock.ExpectExec("DROP TABLE IF EXISTS flow_kb_kb_node").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := vs.DeleteCollection(context.Background(), "kb_node")
	require.NoError(t, err)

	tc.AssertExpectations(t)
}

func TestNewBuildsDSNFromOptions(t *testing.T) {
	vs, err := New(
		WithHost("db.internal"),
		WithPort(5433),
		WithUser("flow"),
		WithPassword("secret"),
		WithDatabase("flowdb"),
		WithSSLMode("require"),
		WithTablePrefix("t_"),
		WithIndexDimension(8),
	)
	require.NoError(t, err)
	defer vs.Close()

	assert.Equal(t, "db.internal", vs.option.host)
	assert.Equal(t, 8, vs.option.indexDimension)
	assert.Equal(t, "t_", vs.option.tablePrefix)
}
