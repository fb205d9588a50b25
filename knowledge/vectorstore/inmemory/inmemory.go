//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory vector store implementation.
//
// It is intended for tests and small single-process deployments; documents
// are lost when the process exits.
package inmemory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
)

var _ vectorstore.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of vectorstore.VectorStore.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*vectorstore.Document
}

// New creates a new in-memory vector store.
func New() *VectorStore {
	return &VectorStore{
		collections: make(map[string]map[string]*vectorstore.Document),
	}
}

// Upsert stores documents in the named collection, creating it on first use.
func (vs *VectorStore) Upsert(ctx context.Context, collection string, docs ...*vectorstore.Document) error {
	if collection == "" {
		return vectorstore.ErrEmptyCollectionName
	}
	for _, doc := range docs {
		if doc == nil || doc.ID == "" {
			return vectorstore.ErrEmptyDocumentID
		}
	}

	vs.mu.Lock()
	defer vs.mu.Unlock()

	coll, ok := vs.collections[collection]
	if !ok {
		coll = make(map[string]*vectorstore.Document)
		vs.collections[collection] = coll
	}
	for _, doc := range docs {
		coll[doc.ID] = doc.Clone()
	}
	return nil
}

// Search returns up to limit documents ordered by ascending cosine distance.
func (vs *VectorStore) Search(
	ctx context.Context,
	collection string,
	vector []float64,
	limit int,
) ([]*vectorstore.ScoredDocument, error) {
	if collection == "" {
		return nil, vectorstore.ErrEmptyCollectionName
	}
	if limit <= 0 {
		return nil, vectorstore.ErrInvalidLimit
	}

	vs.mu.RLock()
	defer vs.mu.RUnlock()

	coll, ok := vs.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, collection)
	}

	results := make([]*vectorstore.ScoredDocument, 0, len(coll))
	for _, doc := range coll {
		if len(doc.Vector) != len(vector) {
			return nil, fmt.Errorf("vector dimension mismatch: document %s has %d, query has %d",
				doc.ID, len(doc.Vector), len(vector))
		}
		results = append(results, &vectorstore.ScoredDocument{
			Document: doc.Clone(),
			Distance: cosineDistance(vector, doc.Vector),
		})
	}

	// Sort by ascending distance, document ID as a stable tie-breaker.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CollectionExists reports whether the named collection exists.
func (vs *VectorStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	_, ok := vs.collections[collection]
	return ok, nil
}

// DeleteCollection removes the collection and all documents in it.
func (vs *VectorStore) DeleteCollection(ctx context.Context, collection string) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	delete(vs.collections, collection)
	return nil
}

// Close releases resources held by the store.
func (vs *VectorStore) Close() error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	vs.collections = make(map[string]map[string]*vectorstore.Document)
	return nil
}

// cosineDistance returns 1 minus the cosine similarity of a and b, so that
// identical directions yield 0 and opposite directions yield 2.
func cosineDistance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
