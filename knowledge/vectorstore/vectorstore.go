//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package vectorstore defines the interface for vector storage backends.
//
// A vector store keeps embedded text chunks grouped into named collections.
// Collections are created on first write; querying a collection that does
// not exist yet is an error.
package vectorstore

import (
	"context"
	"errors"
)

var (
	// ErrCollectionNotFound is returned when an operation references a
	// collection that has not been created yet.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrEmptyCollectionName is returned when the collection name is empty.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrEmptyDocumentID is returned when a document without an ID is upserted.
	ErrEmptyDocumentID = errors.New("document ID cannot be empty")

	// ErrInvalidLimit is returned when a search is issued with a
	// non-positive result limit.
	ErrInvalidLimit = errors.New("search limit must be positive")
)

// Document is an embedded text chunk stored in a collection.
type Document struct {
	// ID uniquely identifies the document within its collection.
	ID string

	// Content is the raw text of the chunk.
	Content string

	// Vector is the embedding of Content.
	Vector []float64

	// Metadata carries chunk-level attributes such as the source
	// filename and chunk index.
	Metadata map[string]any
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := &Document{
		ID:      d.ID,
		Content: d.Content,
	}
	if d.Vector != nil {
		clone.Vector = make([]float64, len(d.Vector))
		copy(clone.Vector, d.Vector)
	}
	if d.Metadata != nil {
		clone.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}

// ScoredDocument pairs a document with its distance from the query vector.
// Lower distance means a closer match; results are ordered ascending.
type ScoredDocument struct {
	Document *Document
	Distance float64
}

// VectorStore is the interface that vector storage backends implement.
type VectorStore interface {
	// Upsert stores documents in the named collection, creating the
	// collection if it does not exist. Existing IDs are overwritten.
	Upsert(ctx context.Context, collection string, docs ...*Document) error

	// Search returns up to limit documents from the collection ordered by
	// ascending distance to the query vector. Searching a collection that
	// does not exist returns ErrCollectionNotFound.
	Search(ctx context.Context, collection string, vector []float64, limit int) ([]*ScoredDocument, error)

	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// DeleteCollection removes the collection and all documents in it.
	// Deleting a collection that does not exist is not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases resources held by the store.
	Close() error
}
