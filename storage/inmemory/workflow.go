//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides in-memory workflow and document stores.
package inmemory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-flow-go/storage"
)

var _ storage.WorkflowStore = (*WorkflowStore)(nil)

// WorkflowStore provides an in-memory implementation of
// storage.WorkflowStore. It is safe for concurrent use.
type WorkflowStore struct {
	mu        sync.RWMutex
	workflows map[string]*storage.Workflow
	// order keeps workflow ids in creation order, so listings stay
	// deterministic even when timestamps collide.
	order []string
}

// NewWorkflowStore creates a new in-memory workflow store.
func NewWorkflowStore() *WorkflowStore {
	return &WorkflowStore{workflows: make(map[string]*storage.Workflow)}
}

// CreateWorkflow stores a new workflow.
func (s *WorkflowStore) CreateWorkflow(ctx context.Context, w *storage.Workflow) (*storage.Workflow, error) {
	if w == nil {
		return nil, errors.New("workflow is nil")
	}
	if w.Name == "" {
		return nil, storage.ErrNameRequired
	}
	now := time.Now().UTC()
	stored := &storage.Workflow{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Nodes:       storage.OrEmptyArray(cloneRaw(w.Nodes)),
		Edges:       storage.OrEmptyArray(cloneRaw(w.Edges)),
		IsValid:     w.IsValid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return cloneWorkflow(stored), nil
}

// GetWorkflow gets a workflow by id.
func (s *WorkflowStore) GetWorkflow(ctx context.Context, id string) (*storage.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workflows[id]
	if !ok {
		return nil, storage.ErrWorkflowNotFound
	}
	return cloneWorkflow(w), nil
}

// ListWorkflows lists all workflows, newest first.
func (s *WorkflowStore) ListWorkflows(ctx context.Context) ([]*storage.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	workflows := make([]*storage.Workflow, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if w, ok := s.workflows[s.order[i]]; ok {
			workflows = append(workflows, cloneWorkflow(w))
		}
	}
	return workflows, nil
}

// UpdateWorkflow replaces the stored fields of w and bumps updated_at.
func (s *WorkflowStore) UpdateWorkflow(ctx context.Context, w *storage.Workflow) (*storage.Workflow, error) {
	if w == nil {
		return nil, errors.New("workflow is nil")
	}
	if w.Name == "" {
		return nil, storage.ErrNameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.workflows[w.ID]
	if !ok {
		return nil, storage.ErrWorkflowNotFound
	}
	stored.Name = w.Name
	stored.Description = w.Description
	stored.Nodes = storage.OrEmptyArray(cloneRaw(w.Nodes))
	stored.Edges = storage.OrEmptyArray(cloneRaw(w.Edges))
	stored.IsValid = w.IsValid
	stored.UpdatedAt = time.Now().UTC()
	return cloneWorkflow(stored), nil
}

// DeleteWorkflow deletes a workflow by id.
func (s *WorkflowStore) DeleteWorkflow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workflows[id]; !ok {
		return storage.ErrWorkflowNotFound
	}
	delete(s.workflows, id)
	for i, storedID := range s.order {
		if storedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping reports whether the store is reachable. It always succeeds.
func (s *WorkflowStore) Ping(ctx context.Context) error {
	return nil
}

// Close closes the store.
func (s *WorkflowStore) Close() error {
	return nil
}

func cloneWorkflow(w *storage.Workflow) *storage.Workflow {
	copied := *w
	copied.Nodes = cloneRaw(w.Nodes)
	copied.Edges = cloneRaw(w.Edges)
	return &copied
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}
