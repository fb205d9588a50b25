//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package source provides internal source utils.
package source

import (
	"path/filepath"
	"strings"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/chunking"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader"

	// Import readers to trigger their init() functions for registration.
	_ "trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader/markdown"
	_ "trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader/pdf"
	_ "trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader/text"
)

// ReaderConfig holds configuration for creating readers.
type ReaderConfig struct {
	chunkSize    int
	chunkOverlap int
	strategy     chunking.Strategy
}

// ReaderOption is a functional option for configuring readers.
type ReaderOption func(*ReaderConfig)

// WithChunkSize sets the chunk size for readers.
func WithChunkSize(size int) ReaderOption {
	return func(c *ReaderConfig) {
		c.chunkSize = size
	}
}

// WithChunkOverlap sets the chunk overlap for readers.
func WithChunkOverlap(overlap int) ReaderOption {
	return func(c *ReaderConfig) {
		c.chunkOverlap = overlap
	}
}

// WithChunkingStrategy sets a custom chunking strategy for all readers.
func WithChunkingStrategy(strategy chunking.Strategy) ReaderOption {
	return func(c *ReaderConfig) {
		c.strategy = strategy
	}
}

// GetReaders returns all available readers configured with the given options.
func GetReaders(opts ...ReaderOption) map[string]reader.Reader {
	config := &ReaderConfig{}
	for _, opt := range opts {
		opt(config)
	}

	var readerOpts []reader.Option
	if config.strategy != nil {
		readerOpts = append(readerOpts, reader.WithCustomChunkingStrategy(config.strategy))
	}
	if config.chunkSize > 0 {
		readerOpts = append(readerOpts, reader.WithChunkSize(config.chunkSize))
	}
	if config.chunkOverlap > 0 {
		readerOpts = append(readerOpts, reader.WithChunkOverlap(config.chunkOverlap))
	}

	return reader.GetAllReaders(readerOpts...)
}

// GetFileType determines the file type based on the file extension.
func GetFileType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".txt", ".text":
		return "text"
	case ".md", ".markdown":
		return "markdown"
	case ".pdf":
		return "pdf"
	default:
		return "text"
	}
}

// IsSupportedExtension reports whether a reader is registered for the
// file's extension.
func IsSupportedExtension(filePath string) bool {
	_, ok := reader.GetReader(filepath.Ext(filePath))
	return ok
}
