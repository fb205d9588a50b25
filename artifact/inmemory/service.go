//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory implementation of the artifact service.
package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-flow-go/artifact"
)

var _ artifact.Service = (*Service)(nil)

// Service is an in-memory implementation of the artifact service.
// It is suitable for testing and single-process deployments.
type Service struct {
	mu        sync.RWMutex
	artifacts map[string]*artifact.Artifact
}

// NewService creates a new in-memory artifact service.
func NewService() *Service {
	return &Service{artifacts: make(map[string]*artifact.Artifact)}
}

// SaveArtifact stores the artifact under the given key.
func (s *Service) SaveArtifact(ctx context.Context, key string, art *artifact.Artifact) error {
	if art == nil {
		return errors.New("artifact is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[key] = cloneArtifact(art)
	return nil
}

// LoadArtifact gets an artifact by key.
func (s *Service) LoadArtifact(ctx context.Context, key string) (*artifact.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	art, ok := s.artifacts[key]
	if !ok {
		return nil, artifact.ErrArtifactNotFound
	}
	return cloneArtifact(art), nil
}

// DeleteArtifact deletes the artifact stored under the key.
func (s *Service) DeleteArtifact(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.artifacts, key)
	return nil
}

// ListArtifactKeys lists all stored keys in lexical order.
func (s *Service) ListArtifactKeys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.artifacts))
	for key := range s.artifacts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func cloneArtifact(art *artifact.Artifact) *artifact.Artifact {
	if art == nil {
		return nil
	}
	copied := *art
	copied.Data = append([]byte(nil), art.Data...)
	return &copied
}
