//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/chunking"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/source"
	isource "trpc.group/trpc-go/trpc-flow-go/knowledge/source/internal/source"
	"trpc.group/trpc-go/trpc-flow-go/log"
)

// Source reads one or more files and turns them into documents.
type Source struct {
	filePaths              []string
	name                   string
	metadata               map[string]any
	chunkSize              int
	chunkOverlap           int
	customChunkingStrategy chunking.Strategy
}

var _ source.Source = (*Source)(nil)

// New creates a new file source for the given file paths.
func New(filePaths []string, opts ...Option) *Source {
	s := &Source{
		filePaths: filePaths,
		name:      "File",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadDocuments reads all configured files and returns their documents.
func (s *Source) ReadDocuments(ctx context.Context) ([]*document.Document, error) {
	var documents []*document.Document
	for _, filePath := range s.filePaths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		docs, err := s.processFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to process file %s: %w", filePath, err)
		}
		documents = append(documents, docs...)
	}
	return documents, nil
}

// processFile reads a single file with the reader registered for its extension.
func (s *Source) processFile(filePath string) ([]*document.Document, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, use the dir source instead", filePath)
	}

	ext := filepath.Ext(filePath)
	rdr, ok := reader.GetReader(ext, s.readerOptions()...)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}

	docs, err := rdr.ReadFromFile(filePath)
	if err != nil {
		return nil, err
	}
	log.Debugf("file source read %d document(s) from %s", len(docs), filePath)

	for _, doc := range docs {
		s.attachMetadata(doc, filePath, info)
	}
	return docs, nil
}

// readerOptions builds reader options from the source configuration.
func (s *Source) readerOptions() []reader.Option {
	var opts []reader.Option
	if s.customChunkingStrategy != nil {
		opts = append(opts, reader.WithCustomChunkingStrategy(s.customChunkingStrategy))
	}
	if s.chunkSize > 0 {
		opts = append(opts, reader.WithChunkSize(s.chunkSize))
	}
	if s.chunkOverlap > 0 {
		opts = append(opts, reader.WithChunkOverlap(s.chunkOverlap))
	}
	return opts
}

// attachMetadata records where the document came from.
func (s *Source) attachMetadata(doc *document.Document, filePath string, info os.FileInfo) {
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	for k, v := range s.metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata[source.MetaSource] = source.TypeFile
	doc.Metadata[source.MetaSourceName] = s.name
	doc.Metadata[source.MetaURI] = filePath
	doc.Metadata[source.MetaFilePath] = filePath
	doc.Metadata[source.MetaFileName] = filepath.Base(filePath)
	doc.Metadata[source.MetaFileExt] = filepath.Ext(filePath)
	doc.Metadata[source.MetaFileSize] = info.Size()
	doc.Metadata[source.MetaModifiedAt] = info.ModTime().UTC()
}

// Name returns the name of this source.
func (s *Source) Name() string {
	return s.name
}

// Type returns the type of this source.
func (s *Source) Type() string {
	return source.TypeFile
}

// GetMetadata returns the metadata associated with this source.
func (s *Source) GetMetadata() map[string]any {
	md := map[string]any{
		"file_paths": s.filePaths,
		"file_count": len(s.filePaths),
		"file_types": s.fileTypes(),
	}
	for k, v := range s.metadata {
		md[k] = v
	}
	return md
}

// fileTypes returns the distinct reader types of the configured files.
func (s *Source) fileTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, p := range s.filePaths {
		ft := isource.GetFileType(p)
		if !seen[ft] {
			seen[ft] = true
			types = append(types, ft)
		}
	}
	return types
}
