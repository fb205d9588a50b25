//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package markdown provides markdown document reader implementation.
package markdown

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
var supportedExtensions = []string{".md", ".markdown"}

// init registers the markdown reader with the global registry.
func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads markdown documents and applies markdown-aware chunking.
type Reader struct {
	chunk            bool
	chunkingStrategy chunking.Strategy
}

var _ reader.Reader = (*Reader)(nil)

// New creates a new markdown reader with the given options.
// Markdown reader uses MarkdownChunking by default so that chunks follow
// the heading structure of the document.
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

// buildDefaultChunkingStrategy builds the default chunking strategy for markdown.
func buildDefaultChunkingStrategy(chunkSize, overlap int) chunking.Strategy {
	var opts []chunking.MarkdownOption
	if chunkSize > 0 {
		opts = append(opts, chunking.WithMarkdownChunkSize(chunkSize))
	}
	if overlap > 0 {
		opts = append(opts, chunking.WithMarkdownOverlap(overlap))
	}
	return chunking.NewMarkdownChunking(opts...)
}

// ReadFromReader reads markdown content from an io.Reader and returns a list of documents.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return r.buildDocuments(string(content), name)
}

// ReadFromFile reads markdown content from a file path and returns a list of documents.
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
		chunks, err := r.chunkingStrategy.Chunk(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk document: %w", err)
		}
		return chunks, nil
	}
	return []*document.Document{doc}, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "markdown"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
