//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package text provides plain text document reader implementation.
package text

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/chunking"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
	idocument "trpc.group/trpc-go/trpc-flow-go/knowledge/document/internal/document"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader"
)

// supportedExtensions defines the file extensions supported by this reader.
var supportedExtensions = []string{".txt", ".text"}

// init registers the text reader with the global registry.
func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads plain text documents and applies chunking strategies.
type Reader struct {
	chunk            bool
	chunkingStrategy chunking.Strategy
}

var _ reader.Reader = (*Reader)(nil)

// New creates a new text reader with the given options.
// Text reader uses FixedSizeChunking by default.
func New(opts ...reader.Option) reader.Reader {
	config := &reader.Config{Chunk: true}
	for _, opt := range opts {
		opt(config)
	}

	strategy := reader.BuildChunkingStrategy(config, buildDefaultChunkingStrategy)

	return &Reader{
		chunk:            config.Chunk,
		chunkingStrategy: strategy,
	}
}

// buildDefaultChunkingStrategy builds the default chunking strategy for text.
func buildDefaultChunkingStrategy(chunkSize, overlap int) chunking.Strategy {
	var opts []chunking.Option
	if chunkSize > 0 {
		opts = append(opts, chunking.WithChunkSize(chunkSize))
	}
	if overlap > 0 {
		opts = append(opts, chunking.WithOverlap(overlap))
	}
	return chunking.NewFixedSizeChunking(opts...)
}

// ReadFromReader reads text content from an io.Reader and returns a list of documents.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return r.buildDocuments(string(content), name)
}

// ReadFromFile reads text content from a file path and returns a list of documents.
func (r *Reader) ReadFromFile(filePath string) ([]*document.Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	fileName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return r.buildDocuments(string(content), fileName)
}

// buildDocuments creates documents from the content and applies chunking.
func (r *Reader) buildDocuments(content, name string) ([]*document.Document, error) {
	doc := idocument.CreateDocument(content, name)
	if r.chunk {
		return r.chunkDocument(doc)
	}
	return []*document.Document{doc}, nil
}

// chunkDocument applies the configured chunking strategy.
func (r *Reader) chunkDocument(doc *document.Document) ([]*document.Document, error) {
	chunks, err := r.chunkingStrategy.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	return chunks, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "text"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
