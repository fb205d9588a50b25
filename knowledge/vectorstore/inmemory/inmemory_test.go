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
	"math"
	"testing"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
)

func TestUpsertAndSearch(t *testing.T) {
	vs := New()
	ctx := context.Background()

	docs := []*vectorstore.Document{
		{ID: "a", Content: "alpha", Vector: []float64{1, 0}, Metadata: map[string]any{"chunk_idx": 0}},
		{ID: "b", Content: "beta", Vector: []float64{0, 1}},
		{ID: "c", Content: "gamma", Vector: []float64{0.9, 0.1}},
	}
	if err := vs.Upsert(ctx, "kb", docs...); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}

	results, err := vs.Search(ctx, "kb", []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.ID != "a" {
		t.Errorf("expected closest document a, got %s", results[0].Document.ID)
	}
	if results[1].Document.ID != "c" {
		t.Errorf("expected second document c, got %s", results[1].Document.ID)
	}
	if results[0].Distance > results[1].Distance {
		t.Error("expected results ordered by ascending distance")
	}
	if math.Abs(results[0].Distance) > 1e-9 {
		t.Errorf("expected zero distance for identical vector, got %f", results[0].Distance)
	}
	if results[0].Document.Metadata["chunk_idx"] != 0 {
		t.Errorf("expected metadata preserved, got %v", results[0].Document.Metadata)
	}
}

func TestSearchMissingCollection(t *testing.T) {
	vs := New()

	_, err := vs.Search(context.Background(), "missing", []float64{1}, 5)
	if !errors.Is(err, vectorstore.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestSearchValidation(t *testing.T) {
	vs := New()
	ctx := context.Background()

	if _, err := vs.Search(ctx, "", []float64{1}, 5); !errors.Is(err, vectorstore.ErrEmptyCollectionName) {
		t.Errorf("expected ErrEmptyCollectionName, got %v", err)
	}
	if _, err := vs.Search(ctx, "kb", []float64{1}, 0); !errors.Is(err, vectorstore.ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	vs := New()
	ctx := context.Background()

	if err := vs.Upsert(ctx, "kb", &vectorstore.Document{ID: "a", Vector: []float64{1, 0}}); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}
	if _, err := vs.Search(ctx, "kb", []float64{1}, 5); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestUpsertOverwritesExistingID(t *testing.T) {
	vs := New()
	ctx := context.Background()

	if err := vs.Upsert(ctx, "kb", &vectorstore.Document{ID: "a", Content: "old", Vector: []float64{1}}); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}
	if err := vs.Upsert(ctx, "kb", &vectorstore.Document{ID: "a", Content: "new", Vector: []float64{1}}); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}

	results, err := vs.Search(ctx, "kb", []float64{1}, 5)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Document.Content != "new" {
		t.Errorf("expected overwritten content, got %q", results[0].Document.Content)
	}
}

func TestUpsertValidation(t *testing.T) {
	vs := New()
	ctx := context.Background()

	if err := vs.Upsert(ctx, "", &vectorstore.Document{ID: "a"}); !errors.Is(err, vectorstore.ErrEmptyCollectionName) {
		t.Errorf("expected ErrEmptyCollectionName, got %v", err)
	}
	if err := vs.Upsert(ctx, "kb", &vectorstore.Document{}); !errors.Is(err, vectorstore.ErrEmptyDocumentID) {
		t.Errorf("expected ErrEmptyDocumentID, got %v", err)
	}
}

func TestCollectionExistsAndDelete(t *testing.T) {
	vs := New()
	ctx := context.Background()

	exists, err := vs.CollectionExists(ctx, "kb")
	if err != nil {
		t.Fatalf("CollectionExists err: %v", err)
	}
	if exists {
		t.Error("expected collection to not exist before upsert")
	}

	if err := vs.Upsert(ctx, "kb", &vectorstore.Document{ID: "a", Vector: []float64{1}}); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}
	exists, err = vs.CollectionExists(ctx, "kb")
	if err != nil {
		t.Fatalf("CollectionExists err: %v", err)
	}
	if !exists {
		t.Error("expected collection to exist after upsert")
	}

	if err := vs.DeleteCollection(ctx, "kb"); err != nil {
		t.Fatalf("DeleteCollection err: %v", err)
	}
	exists, _ = vs.CollectionExists(ctx, "kb")
	if exists {
		t.Error("expected collection to be gone after delete")
	}

	// Deleting a missing collection is not an error.
	if err := vs.DeleteCollection(ctx, "missing"); err != nil {
		t.Errorf("DeleteCollection on missing collection: %v", err)
	}
}

func TestUpsertIsolation(t *testing.T) {
	vs := New()
	ctx := context.Background()

	doc := &vectorstore.Document{ID: "a", Content: "alpha", Vector: []float64{1, 0}}
	if err := vs.Upsert(ctx, "kb", doc); err != nil {
		t.Fatalf("Upsert err: %v", err)
	}

	// Mutating the caller's document must not change the stored copy.
	doc.Content = "mutated"
	doc.Vector[0] = 5

	results, err := vs.Search(ctx, "kb", []float64{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if results[0].Document.Content != "alpha" {
		t.Errorf("stored document was mutated: %q", results[0].Document.Content)
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, 2},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineDistance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("cosineDistance(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
