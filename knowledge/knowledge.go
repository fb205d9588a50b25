//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package knowledge ingests documents into a vector store for retrieval.
//
// The Builtin service reads documents from configured sources or from
// uploaded files, splits them into chunks, embeds each chunk and stores the
// result in a collection of the configured vector store.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	itelemetry "trpc.group/trpc-go/trpc-flow-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/embedder"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/source"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-flow-go/log"

	// Import readers to trigger their init() functions for registration.
	_ "trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader/markdown"
	_ "trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader/pdf"
	_ "trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader/text"
)

// Metadata keys attached to every ingested chunk.
const (
	// MetaFilename is the original name of the ingested file.
	MetaFilename = "filename"
	// MetaChunkIndex is the zero-based index of the chunk within its file.
	MetaChunkIndex = "chunk_idx"
	// MetaSourcePath is the path the file was read from.
	MetaSourcePath = "source"
)

// Default chunking configuration for file ingestion.
const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200

	// defaultCollection receives source documents when no collection is
	// configured.
	defaultCollection = "default"

	// maxDefaultSourceParallel limits how many sources are processed in
	// parallel when the caller does not specify an explicit value.
	maxDefaultSourceParallel = 4
)

// Builtin is the built-in ingestion service.
type Builtin struct {
	collection   string
	embedder     embedder.Embedder
	vectorStore  vectorstore.VectorStore
	sources      []source.Source
	chunkSize    int
	chunkOverlap int
}

// Option configures the Builtin service.
type Option func(*Builtin)

// WithCollection sets the target collection for source loading.
func WithCollection(collection string) Option {
	return func(b *Builtin) {
		b.collection = collection
	}
}

// WithEmbedder sets the embedder used for chunk embeddings.
func WithEmbedder(e embedder.Embedder) Option {
	return func(b *Builtin) {
		b.embedder = e
	}
}

// WithVectorStore sets the vector store that receives embedded chunks.
func WithVectorStore(vs vectorstore.VectorStore) Option {
	return func(b *Builtin) {
		b.vectorStore = vs
	}
}

// WithSources sets the document sources loaded by Load.
func WithSources(sources []source.Source) Option {
	return func(b *Builtin) {
		b.sources = sources
	}
}

// WithChunkSize sets the chunk size used when ingesting files.
func WithChunkSize(size int) Option {
	return func(b *Builtin) {
		if size > 0 {
			b.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the chunk overlap used when ingesting files.
func WithChunkOverlap(overlap int) Option {
	return func(b *Builtin) {
		if overlap >= 0 {
			b.chunkOverlap = overlap
		}
	}
}

// New creates a Builtin ingestion service with the given options.
func New(opts ...Option) *Builtin {
	b := &Builtin{
		collection:   defaultCollection,
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadOption configures load behavior.
type LoadOption func(*loadConfig)

// loadConfig holds the configuration for load behavior.
type loadConfig struct {
	showProgress     bool
	progressStepSize int
	srcParallelism   int
	docParallelism   int
	recreate         bool
}

// WithShowProgress enables or disables progress logging during load.
func WithShowProgress(show bool) LoadOption {
	return func(lc *loadConfig) {
		lc.showProgress = show
	}
}

// WithProgressStepSize sets the granularity of progress updates.
func WithProgressStepSize(stepSize int) LoadOption {
	return func(lc *loadConfig) {
		if stepSize > 0 {
			lc.progressStepSize = stepSize
		}
	}
}

// WithSourceConcurrency configures how many sources are loaded in parallel.
// The default is min(4, number of sources).
func WithSourceConcurrency(n int) LoadOption {
	return func(lc *loadConfig) {
		if n > 0 {
			lc.srcParallelism = n
		}
	}
}

// WithDocConcurrency configures how many documents per source are processed
// concurrently. The default is runtime.NumCPU().
func WithDocConcurrency(n int) LoadOption {
	return func(lc *loadConfig) {
		if n > 0 {
			lc.docParallelism = n
		}
	}
}

// WithRecreate deletes the target collection before loading documents.
// ATTENTION! All previously stored chunks in the collection are lost.
func WithRecreate(recreate bool) LoadOption {
	return func(lc *loadConfig) {
		lc.recreate = recreate
	}
}

// IngestResult describes the outcome of a file ingestion.
type IngestResult struct {
	// Collection is the collection the chunks were stored in.
	Collection string `json:"collection"`
	// Filename is the original file name.
	Filename string `json:"filename"`
	// ChunkCount is the number of chunks produced and stored.
	ChunkCount int `json:"chunk_count"`
}

// Load reads all configured sources and ingests their documents into the
// service collection. Sources are processed concurrently.
func (b *Builtin) Load(ctx context.Context, opts ...LoadOption) error {
	if b.vectorStore == nil {
		return fmt.Errorf("vector store not configured")
	}
	if b.embedder == nil {
		return fmt.Errorf("embedder not configured")
	}

	config := b.buildLoadConfig(len(b.sources), opts...)
	if config.recreate {
		log.Infof("Recreating collection %s before load", b.collection)
		if err := b.vectorStore.DeleteCollection(ctx, b.collection); err != nil {
			return fmt.Errorf("failed to recreate collection %s: %w", b.collection, err)
		}
	}
	return b.loadConcurrent(ctx, config, b.sources)
}

// AddSource adds a source to the service and loads it immediately.
func (b *Builtin) AddSource(ctx context.Context, src source.Source, opts ...LoadOption) error {
	for _, existing := range b.sources {
		if src.Name() == existing.Name() {
			return fmt.Errorf("source with name %s already exists", src.Name())
		}
	}
	b.sources = append(b.sources, src)

	config := b.buildLoadConfig(1, opts...)
	return b.loadConcurrent(ctx, config, []source.Source{src})
}

// IngestFile reads one file, chunks it, embeds each chunk and stores the
// chunks in the target collection. Chunk IDs follow "{collection}_{index}"
// so re-ingesting the same file overwrites the previous chunks.
func (b *Builtin) IngestFile(ctx context.Context, collection, filePath, filename string) (*IngestResult, error) {
	if b.vectorStore == nil {
		return nil, fmt.Errorf("vector store not configured")
	}
	if b.embedder == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	if collection == "" {
		return nil, vectorstore.ErrEmptyCollectionName
	}

	ctx, span := itelemetry.Tracer.Start(
		ctx,
		fmt.Sprintf("%s %s", itelemetry.OperationIngestSource, collection),
		trace.WithAttributes(attribute.String(itelemetry.KeyCollection, collection)),
	)
	defer span.End()
	start := time.Now()

	log.Infof("Processing document: %s", filename)
	chunks, err := b.readFileChunks(filePath, filename)
	if err != nil {
		itelemetry.TraceError(span, "read_error", err.Error())
		return nil, err
	}
	log.Infof("Created %d chunks from document %s", len(chunks), filename)

	docs := make([]*vectorstore.Document, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := b.embedder.GetEmbedding(ctx, chunk.Content)
		if err != nil {
			itelemetry.TraceError(span, "embed_error", err.Error())
			return nil, fmt.Errorf("failed to embed chunk %d of %s: %w", i, filename, err)
		}
		docs = append(docs, &vectorstore.Document{
			ID:       fmt.Sprintf("%s_%d", collection, i),
			Content:  chunk.Content,
			Vector:   embedding,
			Metadata: chunkMetadata(chunk, filename, filePath, i),
		})
	}

	if err := b.vectorStore.Upsert(ctx, collection, docs...); err != nil {
		itelemetry.TraceError(span, "store_error", err.Error())
		return nil, fmt.Errorf("failed to store chunks of %s: %w", filename, err)
	}

	itelemetry.IncIngestDocumentCnt(ctx, collection, len(docs))
	itelemetry.RecordIngestDuration(ctx, collection, time.Since(start))
	log.Infof("Successfully processed %s with %d chunks", filename, len(docs))

	return &IngestResult{
		Collection: collection,
		Filename:   filename,
		ChunkCount: len(docs),
	}, nil
}

// RemoveCollection deletes an ingested collection and all its chunks.
// Removing a collection that does not exist is not an error.
func (b *Builtin) RemoveCollection(ctx context.Context, collection string) error {
	if b.vectorStore == nil {
		return fmt.Errorf("vector store not configured")
	}
	if collection == "" {
		return vectorstore.ErrEmptyCollectionName
	}
	log.Infof("Removing collection %s", collection)
	return b.vectorStore.DeleteCollection(ctx, collection)
}

// Close releases the vector store.
func (b *Builtin) Close() error {
	if b.vectorStore != nil {
		return b.vectorStore.Close()
	}
	return nil
}

// readFileChunks selects a reader by file extension and returns the chunked
// documents of the file.
func (b *Builtin) readFileChunks(filePath, filename string) ([]*document.Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	rd, ok := reader.GetReader(ext,
		reader.WithChunkSize(b.chunkSize),
		reader.WithChunkOverlap(b.chunkOverlap),
	)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	docs, err := rd.ReadFromReader(name, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return docs, nil
}

// chunkMetadata merges the chunk's own metadata with the ingestion keys.
func chunkMetadata(chunk *document.Document, filename, filePath string, index int) map[string]any {
	metadata := make(map[string]any, len(chunk.Metadata)+3)
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}
	metadata[MetaFilename] = filename
	metadata[MetaChunkIndex] = index
	metadata[MetaSourcePath] = filePath
	return metadata
}

// loadConcurrent loads sources with source- and document-level parallelism.
func (b *Builtin) loadConcurrent(ctx context.Context, config *loadConfig, sources []source.Source) error {
	if len(sources) == 0 {
		return nil
	}

	srcPool, err := ants.NewPool(config.srcParallelism)
	if err != nil {
		return fmt.Errorf("failed to create source worker pool: %w", err)
	}
	defer srcPool.Release()

	docPool, err := ants.NewPool(config.docParallelism)
	if err != nil {
		return fmt.Errorf("failed to create document worker pool: %w", err)
	}
	defer docPool.Release()

	var wg sync.WaitGroup
	errCh := make(chan error, len(sources))

	for i, src := range sources {
		wg.Add(1)
		srcIdx := i
		src := src
		err := srcPool.Submit(func() {
			defer wg.Done()
			sourceName := src.Name()
			log.Infof("Loading source %d/%d: %s (type: %s)", srcIdx+1, len(sources), sourceName, src.Type())
			docs, err := src.ReadDocuments(ctx)
			if err != nil {
				errCh <- fmt.Errorf("failed to read documents from source %s: %w", sourceName, err)
				return
			}
			log.Infof("Fetched %d document(s) from source %s", len(docs), sourceName)
			if err := b.processDocuments(ctx, docs, config, docPool, src); err != nil {
				errCh <- fmt.Errorf("failed to process documents for source %s: %w", sourceName, err)
				return
			}
			log.Infof("Successfully loaded source %s", sourceName)
		})
		if err != nil {
			wg.Done()
			errCh <- fmt.Errorf("failed to submit source processing task: %w", err)
		}
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return err
	}
	return nil
}

// processDocuments embeds and stores all documents from a single source
// using document-level parallelism.
func (b *Builtin) processDocuments(
	ctx context.Context,
	docs []*document.Document,
	config *loadConfig,
	pool *ants.Pool,
	src source.Source,
) error {
	var wgDoc sync.WaitGroup
	errCh := make(chan error, len(docs))

	processDoc := func(doc *document.Document, docIndex int) func() {
		return func() {
			defer wgDoc.Done()
			if err := b.addDocument(ctx, doc); err != nil {
				errCh <- fmt.Errorf("add document: %w", err)
				return
			}
			if config.showProgress {
				processed := docIndex + 1
				if processed%config.progressStepSize == 0 || processed == len(docs) {
					log.Infof("Processed %d/%d doc(s) from source %s", processed, len(docs), src.Name())
				}
			}
		}
	}

	for i, doc := range docs {
		wgDoc.Add(1)
		task := processDoc(doc, i)
		if err := pool.Submit(task); err != nil {
			wgDoc.Done()
			errCh <- fmt.Errorf("submit doc task: %w", err)
		}
	}

	wgDoc.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return err
	}
	return nil
}

// addDocument embeds one document and stores it in the service collection.
func (b *Builtin) addDocument(ctx context.Context, doc *document.Document) error {
	embedding, err := b.embedder.GetEmbedding(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
	}
	return b.vectorStore.Upsert(ctx, b.collection, &vectorstore.Document{
		ID:       doc.ID,
		Content:  doc.Content,
		Vector:   embedding,
		Metadata: doc.Metadata,
	})
}

// buildLoadConfig creates a load configuration with defaults applied.
func (b *Builtin) buildLoadConfig(sourceCount int, opts ...LoadOption) *loadConfig {
	config := &loadConfig{
		progressStepSize: 10,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.srcParallelism <= 0 {
		config.srcParallelism = min(maxDefaultSourceParallel, max(sourceCount, 1))
	}
	if config.docParallelism <= 0 {
		config.docParallelism = runtime.NumCPU()
	}
	return config
}
