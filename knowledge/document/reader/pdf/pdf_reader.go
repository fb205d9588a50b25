//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package pdf provides PDF document reader implementation.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/chunking"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document"
	idocument "trpc.group/trpc-go/trpc-flow-go/knowledge/document/internal/document"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/document/reader"
)

// supportedExtensions defines the file extensions supported by this reader.
var supportedExtensions = []string{".pdf"}

// init registers the PDF reader with the global registry.
func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads PDF documents and applies chunking strategies.
// Only the embedded text layer is extracted; image-only pages yield no
// content.
type Reader struct {
	chunk            bool
	chunkingStrategy chunking.Strategy
}

var _ reader.Reader = (*Reader)(nil)

// New creates a new PDF reader with the given options.
// PDF reader uses FixedSizeChunking by default.
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

// buildDefaultChunkingStrategy builds the default chunking strategy for PDF.
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

// ReadFromReader reads PDF content from an io.Reader and returns a list of documents.
// The PDF format requires random access, so the whole stream is buffered
// in memory first.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF content: %w", err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	text, err := extractText(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	return r.buildDocuments(text, name)
}

// ReadFromFile reads PDF content from a file path and returns a list of documents.
func (r *Reader) ReadFromFile(filePath string) ([]*document.Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	pdfReader, err := pdf.NewReader(file, fileInfo.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	text, err := extractText(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	fileName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return r.buildDocuments(text, fileName)
}

// extractText extracts text from all pages of a PDF reader.
func extractText(pdfReader *pdf.Reader) (string, error) {
	var allText strings.Builder
	totalPage := pdfReader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := pdfReader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err == nil && text != "" {
			allText.WriteString(text)
			allText.WriteString("\n")
		}
	}

	return allText.String(), nil
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
	return "pdf"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
