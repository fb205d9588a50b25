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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore/inmemory"
)

func TestRetrievalExecute(t *testing.T) {
	store := seededStore(t, "docs", "First chunk.", "Second chunk.", "Third chunk.")
	config := map[string]any{CfgKeyCollectionName: "docs", CfgKeyTopK: 2}
	c := newRetrieval("kb", config, &stubEmbedder{vec: []float64{1, 0, 0}}, store)

	out, err := c.Execute(context.Background(), Payload{KeyQuery: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "First chunk.\n\nSecond chunk.", out[KeyContext])
	assert.Equal(t, []string{"First chunk.", "Second chunk."}, out[KeyDocuments])
	assert.Equal(t, "anything", out[KeyQuery])
	assert.Equal(t, string(KindKnowledgeBase), out[KeyComponentType])
	assert.Equal(t, "kb", out[KeyNodeID])

	distances, ok := out[KeyDistances].([]float64)
	require.True(t, ok)
	require.Len(t, distances, 2)
	assert.LessOrEqual(t, distances[0], distances[1])
}

func TestRetrievalEmptyQuery(t *testing.T) {
	emb := &stubEmbedder{vec: []float64{1, 0, 0}}
	c := newRetrieval("kb", nil, emb, inmemory.New())

	out, err := c.Execute(context.Background(), Payload{KeyQuery: ""})
	require.NoError(t, err)
	assert.Equal(t, "", out[KeyContext])
	assert.Equal(t, []string{}, out[KeyDocuments])
	assert.Zero(t, emb.calls)

	_, hasType := out[KeyComponentType]
	assert.False(t, hasType)
}

func TestRetrievalMissingCollection(t *testing.T) {
	emb := &stubEmbedder{vec: []float64{1, 0, 0}}
	c := newRetrieval("kb", nil, emb, inmemory.New())

	out, err := c.Execute(context.Background(), Payload{KeyQuery: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "", out[KeyContext])
	assert.Equal(t, []string{}, out[KeyDocuments])
	// The collection is checked before the query is embedded.
	assert.Zero(t, emb.calls)
}

func TestRetrievalDefaultCollection(t *testing.T) {
	store := seededStore(t, "kb_node-7", "Only chunk.")
	c := newRetrieval("node-7", nil, &stubEmbedder{vec: []float64{1, 0, 0}}, store)

	out, err := c.Execute(context.Background(), Payload{KeyQuery: "q"})
	require.NoError(t, err)
	assert.Equal(t, "Only chunk.", out[KeyContext])
}

func TestRetrievalEmbedError(t *testing.T) {
	store := seededStore(t, "docs", "Chunk.")
	config := map[string]any{CfgKeyCollectionName: "docs"}
	c := newRetrieval("kb", config, &stubEmbedder{err: errors.New("quota exceeded")}, store)

	_, err := c.Execute(context.Background(), Payload{KeyQuery: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed query")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRetrievalSearchError(t *testing.T) {
	store := &failStore{err: errors.New("connection reset")}
	c := newRetrieval("kb", nil, &stubEmbedder{vec: []float64{1, 0, 0}}, store)

	_, err := c.Execute(context.Background(), Payload{KeyQuery: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search collection")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRetrievalNotConfigured(t *testing.T) {
	_, err := newRetrieval("kb", nil, nil, inmemory.New()).
		Execute(context.Background(), Payload{KeyQuery: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder not configured")

	_, err = newRetrieval("kb", nil, &stubEmbedder{vec: []float64{1}}, nil).
		Execute(context.Background(), Payload{KeyQuery: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector store not configured")
}

func TestRetrievalTopKLimitsResults(t *testing.T) {
	store := seededStore(t, "docs", "One.", "Two.", "Three.", "Four.", "Five.", "Six.")
	c := newRetrieval("kb", map[string]any{CfgKeyCollectionName: "docs"},
		&stubEmbedder{vec: []float64{1, 0, 0}}, store)

	out, err := c.Execute(context.Background(), Payload{KeyQuery: "q"})
	require.NoError(t, err)
	documents, ok := out[KeyDocuments].([]string)
	require.True(t, ok)
	assert.Len(t, documents, defaultTopK)
}
