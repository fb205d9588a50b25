//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package artifact

import (
	"context"
	"errors"
)

// ErrArtifactNotFound is returned when the requested artifact does not exist.
var ErrArtifactNotFound = errors.New("artifact not found")

// Service defines the interface for artifact storage and retrieval.
// Artifacts are keyed by the owning document's id, one artifact per key.
type Service interface {
	// SaveArtifact stores the artifact under the given key, replacing any
	// previous content.
	SaveArtifact(ctx context.Context, key string, art *Artifact) error

	// LoadArtifact gets an artifact by key. It returns ErrArtifactNotFound
	// when no artifact is stored under the key.
	LoadArtifact(ctx context.Context, key string) (*Artifact, error)

	// DeleteArtifact deletes the artifact stored under the key. Deleting a
	// missing artifact is not an error.
	DeleteArtifact(ctx context.Context, key string) error

	// ListArtifactKeys lists all stored keys in lexical order.
	ListArtifactKeys(ctx context.Context) ([]string, error)
}
