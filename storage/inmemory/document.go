//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-flow-go/storage"
)

var _ storage.DocumentStore = (*DocumentStore)(nil)

// DocumentStore provides an in-memory implementation of
// storage.DocumentStore. It is safe for concurrent use.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*storage.Document
	order     []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[string]*storage.Document)}
}

// CreateDocument stores a new document record.
func (s *DocumentStore) CreateDocument(ctx context.Context, d *storage.Document) (*storage.Document, error) {
	if d == nil {
		return nil, errors.New("document is nil")
	}
	if d.Filename == "" {
		return nil, storage.ErrFilenameRequired
	}
	stored := &storage.Document{
		ID:             d.ID,
		Filename:       d.Filename,
		FileSize:       d.FileSize,
		UploadedAt:     time.Now().UTC(),
		Processed:      d.Processed,
		ChunkCount:     d.ChunkCount,
		CollectionName: d.CollectionName,
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return cloneDocument(stored), nil
}

// GetDocument gets a document by id.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, storage.ErrDocumentNotFound
	}
	return cloneDocument(d), nil
}

// ListDocuments lists all documents, newest first.
func (s *DocumentStore) ListDocuments(ctx context.Context) ([]*storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	documents := make([]*storage.Document, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if d, ok := s.documents[s.order[i]]; ok {
			documents = append(documents, cloneDocument(d))
		}
	}
	return documents, nil
}

// MarkDocumentProcessed records a completed ingestion.
func (s *DocumentStore) MarkDocumentProcessed(
	ctx context.Context,
	id string,
	chunkCount int,
	collection string,
) (*storage.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, storage.ErrDocumentNotFound
	}
	d.Processed = true
	d.ChunkCount = chunkCount
	d.CollectionName = collection
	return cloneDocument(d), nil
}

// DeleteDocument deletes a document by id.
func (s *DocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return storage.ErrDocumentNotFound
	}
	delete(s.documents, id)
	for i, storedID := range s.order {
		if storedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping reports whether the store is reachable. It always succeeds.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return nil
}

// Close closes the store.
func (s *DocumentStore) Close() error {
	return nil
}

func cloneDocument(d *storage.Document) *storage.Document {
	copied := *d
	return &copied
}
