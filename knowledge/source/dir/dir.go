//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package dir

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/chunking"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/source"
	"trpc.group/trpc-go/trpc-flow-go/log"

	// Register the standard readers.
	_ "trpc.group/trpc-go/trpc-flow-go/knowledge/source/internal/source"
)

// Source reads every supported file under one or more directories.
type Source struct {
	dirPaths               []string
	name                   string
	metadata               map[string]any
	fileExtensions         []string
	globPatterns           []string
	recursive              bool
	chunkSize              int
	chunkOverlap           int
	customChunkingStrategy chunking.Strategy
}

var _ source.Source = (*Source)(nil)

// New creates a new directory source for the given directory paths.
// Subdirectories are included by default.
func New(dirPaths []string, opts ...Option) *Source {
	s := &Source{
		dirPaths:  dirPaths,
		name:      "Directory",
		recursive: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadDocuments walks all configured directories and returns the documents
// of every accepted file.
func (s *Source) ReadDocuments(ctx context.Context) ([]*document.Document, error) {
	var documents []*document.Document
	for _, dirPath := range s.dirPaths {
		docs, err := s.processDir(ctx, dirPath)
		if err != nil {
			return nil, fmt.Errorf("failed to process directory %s: %w", dirPath, err)
		}
		documents = append(documents, docs...)
	}
	return documents, nil
}

// processDir walks a single directory tree.
func (s *Source) processDir(ctx context.Context, dirPath string) ([]*document.Document, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dirPath)
	}

	var documents []*document.Document
	err = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			if !s.recursive && path != dirPath {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(dirPath, path)
		if err != nil {
			return err
		}
		if !s.accepts(relPath) {
			return nil
		}

		docs, err := s.processFile(path)
		if err != nil {
			// Skip unreadable files instead of failing the whole walk.
			log.Warnf("dir source skipping %s: %v", path, err)
			return nil
		}
		documents = append(documents, docs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// accepts applies the extension and glob filters to a relative file path.
func (s *Source) accepts(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	if len(s.fileExtensions) > 0 {
		matched := false
		for _, allowed := range s.fileExtensions {
			if strings.ToLower(allowed) == ext {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	} else if _, ok := reader.GetReader(ext); !ok {
		return false
	}

	if len(s.globPatterns) == 0 {
		return true
	}
	slashPath := filepath.ToSlash(relPath)
	for _, pattern := range s.globPatterns {
		if ok, err := doublestar.Match(pattern, slashPath); err == nil && ok {
			return true
		}
	}
	return false
}

// processFile reads one file with the reader registered for its extension.
func (s *Source) processFile(filePath string) ([]*document.Document, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}

	rdr, ok := reader.GetReader(filepath.Ext(filePath), s.readerOptions()...)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(filePath))
	}

	docs, err := rdr.ReadFromFile(filePath)
	if err != nil {
		return nil, err
	}

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
	doc.Metadata[source.MetaSource] = source.TypeDir
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
	return source.TypeDir
}

// GetMetadata returns the metadata associated with this source.
func (s *Source) GetMetadata() map[string]any {
	md := map[string]any{
		"dir_paths": s.dirPaths,
		"recursive": s.recursive,
	}
	if len(s.fileExtensions) > 0 {
		md["file_extensions"] = s.fileExtensions
	}
	if len(s.globPatterns) > 0 {
		md["glob_patterns"] = s.globPatterns
	}
	for k, v := range s.metadata {
		md[k] = v
	}
	return md
}
