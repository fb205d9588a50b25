//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package source defines the interface for knowledge sources.
package source

import (
	"context"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
)

// Source types.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

const metaPrefix = "trpc_flow_go_"

// Metadata keys attached to documents by sources and chunking strategies.
const (
	MetaSource      = metaPrefix + "source"
	MetaSourceName  = metaPrefix + "source_name"
	MetaURI         = metaPrefix + "uri"
	MetaFilePath    = metaPrefix + "file_path"
	MetaFileName    = metaPrefix + "file_name"
	MetaFileExt     = metaPrefix + "file_ext"
	MetaFileSize    = metaPrefix + "file_size"
	MetaModifiedAt  = metaPrefix + "modified_at"
	MetaFileCount   = metaPrefix + "file_count"
	MetaChunkIndex  = metaPrefix + "chunk_index"
	MetaChunkSize   = metaPrefix + "chunk_size"
	MetaHeaderPath  = metaPrefix + "header_path"
	MetaOverlapSize = metaPrefix + "overlap_size"
)

// Source represents a knowledge source that can provide documents.
type Source interface {
	// ReadDocuments reads and returns documents representing the source.
	// This method should handle the specific content type and return any errors.
	ReadDocuments(ctx context.Context) ([]*document.Document, error)

	// Name returns a human-readable name for this source.
	Name() string

	// Type returns the type of this source (e.g., "file", "dir").
	Type() string

	// GetMetadata returns the metadata associated with this source.
	GetMetadata() map[string]any
}
