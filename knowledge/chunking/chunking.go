//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package chunking provides document chunking strategies and utilities.
package chunking

import (
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/internal/encoding"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/source"
)

// Default chunking parameters.
const (
	defaultChunkSize = 1000
	defaultOverlap   = 200
)

// Chunking errors.
var (
	// ErrNilDocument is returned when the document to chunk is nil.
	ErrNilDocument = errors.New("document is nil")
	// ErrEmptyDocument is returned when the document has no content.
	ErrEmptyDocument = errors.New("document content is empty")
	// ErrInvalidOverlap is returned when the overlap is not smaller than
	// the chunk size. Advancing by size-overlap would never terminate.
	ErrInvalidOverlap = errors.New("chunk overlap must be smaller than chunk size")
)

// Strategy defines how a document is split into smaller chunks.
type Strategy interface {
	// Chunk splits the document and returns the resulting chunk documents.
	Chunk(doc *document.Document) ([]*document.Document, error)
}

// Option represents a functional option for configuring FixedSizeChunking.
type Option func(*FixedSizeChunking)

// WithChunkSize sets the maximum size of each chunk in runes.
func WithChunkSize(size int) Option {
	return func(fc *FixedSizeChunking) {
		fc.chunkSize = size
	}
}

// WithOverlap sets the number of runes shared between consecutive chunks.
func WithOverlap(overlap int) Option {
	return func(fc *FixedSizeChunking) {
		fc.overlap = overlap
	}
}

// FixedSizeChunking splits documents into fixed-size chunks with a
// configurable overlap. Each chunk after the first starts size-overlap
// runes after the previous one, so consecutive chunks share their
// boundary text. The last chunk may be shorter.
type FixedSizeChunking struct {
	chunkSize int
	overlap   int
}

var _ Strategy = (*FixedSizeChunking)(nil)

// NewFixedSizeChunking creates a new fixed-size chunking strategy with options.
func NewFixedSizeChunking(opts ...Option) *FixedSizeChunking {
	fc := &FixedSizeChunking{
		chunkSize: defaultChunkSize,
		overlap:   defaultOverlap,
	}
	for _, opt := range opts {
		opt(fc)
	}
	return fc
}

// ChunkSize returns the configured chunk size.
func (f *FixedSizeChunking) ChunkSize() int { return f.chunkSize }

// Overlap returns the configured overlap.
func (f *FixedSizeChunking) Overlap() int { return f.overlap }

// Chunk splits the document into overlapping fixed-size chunks.
// The overlap configuration is validated here rather than at construction
// time so that an invalid combination aborts the operation that uses it.
func (f *FixedSizeChunking) Chunk(doc *document.Document) ([]*document.Document, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if doc.IsEmpty() {
		return nil, ErrEmptyDocument
	}
	if f.chunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", f.chunkSize)
	}
	if f.overlap < 0 || f.overlap >= f.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, chunk size %d", ErrInvalidOverlap, f.overlap, f.chunkSize)
	}

	runes := []rune(doc.Content)
	step := f.chunkSize - f.overlap
	chunks := make([]*document.Document, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := min(start+f.chunkSize, len(runes))
		chunks = append(chunks, createChunk(doc, string(runes[start:end]), len(chunks)+1))
	}
	return chunks, nil
}

// createChunk builds a chunk document derived from the original document.
// Chunk numbering starts at 1.
func createChunk(orig *document.Document, content string, number int) *document.Document {
	chunk := orig.Clone()
	chunk.ID = fmt.Sprintf("%s_chunk_%d", orig.ID, number)
	chunk.Content = content
	if chunk.Metadata == nil {
		chunk.Metadata = make(map[string]any)
	}
	chunk.Metadata[source.MetaChunkIndex] = number
	chunk.Metadata[source.MetaChunkSize] = encoding.RuneCount(content)
	return chunk
}
