//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package embedder defines the interface for text embedding providers.
package embedder

import "context"

// Embedder converts text into vector embeddings for similarity search.
type Embedder interface {
	// GetEmbedding generates an embedding vector for the given text.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)

	// GetDimensions returns the number of dimensions of the embedding vectors.
	GetDimensions() int
}
