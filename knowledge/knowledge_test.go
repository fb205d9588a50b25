//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/source"
	filesource "trpc.group/trpc-go/trpc-flow-go/knowledge/source/file"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore/inmemory"
)

// stubEmbedder returns a deterministic vector derived from the text length.
// It is safe for concurrent use.
type stubEmbedder struct {
	calls atomic.Int64
	err   error
}

func (s *stubEmbedder) GetEmbedding(_ context.Context, text string) ([]float64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []float64{float64(len(text)), 1, 0}, nil
}

func (s *stubEmbedder) GetDimensions() int { return 3 }

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// searchIDs returns the IDs of all documents in a collection, sorted.
func searchIDs(t *testing.T, store vectorstore.VectorStore, collection string, limit int) []string {
	t.Helper()
	results, err := store.Search(context.Background(), collection, []float64{1, 1, 0}, limit)
	require.NoError(t, err)
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Document.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestIngestFile(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "notes.txt", "alpha beta gamma")
	store := inmemory.New()
	emb := &stubEmbedder{}
	b := New(WithEmbedder(emb), WithVectorStore(store))

	result, err := b.IngestFile(context.Background(), "doc_abc", path, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "doc_abc", result.Collection)
	assert.Equal(t, "notes.txt", result.Filename)
	require.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, int64(1), emb.calls.Load())

	exists, err := store.CollectionExists(context.Background(), "doc_abc")
	require.NoError(t, err)
	assert.True(t, exists)

	results, err := store.Search(context.Background(), "doc_abc", []float64{16, 1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	doc := results[0].Document
	assert.Equal(t, "doc_abc_0", doc.ID)
	assert.Equal(t, "alpha beta gamma", doc.Content)
	assert.Equal(t, "notes.txt", doc.Metadata[MetaFilename])
	assert.Equal(t, 0, doc.Metadata[MetaChunkIndex])
	assert.Equal(t, path, doc.Metadata[MetaSourcePath])
}

func TestIngestFileMultipleChunks(t *testing.T) {
	content := strings.Repeat("abcdefghij", 5)
	path := writeTempFile(t, t.TempDir(), "long.txt", content)
	store := inmemory.New()
	b := New(
		WithEmbedder(&stubEmbedder{}),
		WithVectorStore(store),
		WithChunkSize(10),
		WithChunkOverlap(2),
	)

	result, err := b.IngestFile(context.Background(), "doc_long", path, "long.txt")
	require.NoError(t, err)
	// 50 runes in steps of chunkSize-overlap = 8.
	assert.Equal(t, 7, result.ChunkCount)

	ids := searchIDs(t, store, "doc_long", 50)
	require.Len(t, ids, 7)
	assert.Equal(t, "doc_long_0", ids[0])
	assert.Equal(t, "doc_long_6", ids[6])
}

func TestIngestFileUnsupportedExtension(t *testing.T) {
	b := New(WithEmbedder(&stubEmbedder{}), WithVectorStore(inmemory.New()))

	result, err := b.IngestFile(context.Background(), "doc_x", "/tmp/report.xyz", "report.xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
	assert.Nil(t, result)
}

func TestIngestFileRequiresConfiguration(t *testing.T) {
	ctx := context.Background()

	_, err := New().IngestFile(ctx, "c", "/tmp/a.txt", "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector store not configured")

	_, err = New(WithVectorStore(inmemory.New())).IngestFile(ctx, "c", "/tmp/a.txt", "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder not configured")

	b := New(WithVectorStore(inmemory.New()), WithEmbedder(&stubEmbedder{}))
	_, err = b.IngestFile(ctx, "", "/tmp/a.txt", "a.txt")
	assert.True(t, errors.Is(err, vectorstore.ErrEmptyCollectionName))
}

func TestIngestFileEmbedError(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "notes.txt", "some content")
	b := New(
		WithEmbedder(&stubEmbedder{err: errors.New("quota exceeded")}),
		WithVectorStore(inmemory.New()),
	)

	_, err := b.IngestFile(context.Background(), "doc_e", path, "notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRemoveCollection(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "notes.txt", "alpha beta")
	store := inmemory.New()
	b := New(WithEmbedder(&stubEmbedder{}), WithVectorStore(store))

	_, err := b.IngestFile(context.Background(), "doc_rm", path, "notes.txt")
	require.NoError(t, err)

	require.NoError(t, b.RemoveCollection(context.Background(), "doc_rm"))

	exists, err := store.CollectionExists(context.Background(), "doc_rm")
	require.NoError(t, err)
	assert.False(t, exists)

	// Removing a collection that does not exist is not an error.
	assert.NoError(t, b.RemoveCollection(context.Background(), "doc_rm"))
}

func TestRemoveCollectionRequiresConfiguration(t *testing.T) {
	err := New().RemoveCollection(context.Background(), "doc_rm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector store not configured")

	err = New(WithVectorStore(inmemory.New())).RemoveCollection(context.Background(), "")
	assert.True(t, errors.Is(err, vectorstore.ErrEmptyCollectionName))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTempFile(t, dir, "one.txt", "first document")
	p2 := writeTempFile(t, dir, "two.txt", "second document")

	store := inmemory.New()
	src := filesource.New([]string{p1, p2}, filesource.WithName("docs"))
	b := New(
		WithCollection("kb_main"),
		WithEmbedder(&stubEmbedder{}),
		WithVectorStore(store),
		WithSources([]source.Source{src}),
	)

	require.NoError(t, b.Load(context.Background()))

	exists, err := store.CollectionExists(context.Background(), "kb_main")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, searchIDs(t, store, "kb_main", 10), 2)
}

func TestLoadRequiresConfiguration(t *testing.T) {
	err := New().Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector store not configured")

	err = New(WithVectorStore(inmemory.New())).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder not configured")
}

func TestLoadNoSources(t *testing.T) {
	b := New(WithEmbedder(&stubEmbedder{}), WithVectorStore(inmemory.New()))
	assert.NoError(t, b.Load(context.Background()))
}

func TestLoadRecreate(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	require.NoError(t, store.Upsert(ctx, "kb_main", &vectorstore.Document{
		ID:      "stale",
		Content: "old content",
		Vector:  []float64{1, 0, 0},
	}))

	path := writeTempFile(t, t.TempDir(), "fresh.txt", "fresh content")
	src := filesource.New([]string{path}, filesource.WithName("docs"))
	b := New(
		WithCollection("kb_main"),
		WithEmbedder(&stubEmbedder{}),
		WithVectorStore(store),
		WithSources([]source.Source{src}),
	)

	require.NoError(t, b.Load(ctx, WithRecreate(true)))

	ids := searchIDs(t, store, "kb_main", 10)
	require.Len(t, ids, 1)
	assert.NotContains(t, ids, "stale")
}

func TestLoadSourceError(t *testing.T) {
	src := filesource.New([]string{"/nonexistent/missing.txt"}, filesource.WithName("broken"))
	b := New(
		WithEmbedder(&stubEmbedder{}),
		WithVectorStore(inmemory.New()),
		WithSources([]source.Source{src}),
	)

	err := b.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestAddSource(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTempFile(t, dir, "one.txt", "first")
	p2 := writeTempFile(t, dir, "two.txt", "second")

	store := inmemory.New()
	b := New(
		WithCollection("kb_add"),
		WithEmbedder(&stubEmbedder{}),
		WithVectorStore(store),
	)

	require.NoError(t, b.AddSource(context.Background(), filesource.New([]string{p1}, filesource.WithName("docs"))))
	assert.Len(t, searchIDs(t, store, "kb_add", 10), 1)

	err := b.AddSource(context.Background(), filesource.New([]string{p2}, filesource.WithName("docs")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source with name docs already exists")

	require.NoError(t, b.AddSource(context.Background(), filesource.New([]string{p2}, filesource.WithName("more"))))
	assert.Len(t, searchIDs(t, store, "kb_add", 10), 2)
}

func TestClose(t *testing.T) {
	b := New(WithVectorStore(inmemory.New()))
	assert.NoError(t, b.Close())
	assert.NoError(t, New().Close())
}

func TestBuildLoadConfigDefaults(t *testing.T) {
	b := New()

	config := b.buildLoadConfig(10)
	assert.Equal(t, maxDefaultSourceParallel, config.srcParallelism)
	assert.Positive(t, config.docParallelism)
	assert.Equal(t, 10, config.progressStepSize)

	config = b.buildLoadConfig(2)
	assert.Equal(t, 2, config.srcParallelism)

	config = b.buildLoadConfig(0, WithSourceConcurrency(8), WithDocConcurrency(3), WithProgressStepSize(5), WithShowProgress(true))
	assert.Equal(t, 8, config.srcParallelism)
	assert.Equal(t, 3, config.docParallelism)
	assert.Equal(t, 5, config.progressStepSize)
	assert.True(t, config.showProgress)
}
