//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package document defines the document type used throughout the knowledge
// pipeline.
package document

import (
	"strings"
	"time"
)

// Document represents a piece of text content with associated metadata.
// Readers produce documents, chunking strategies split them, and vector
// stores index them.
type Document struct {
	// ID is the unique identifier of the document.
	ID string `json:"id"`

	// Name is a human-readable name for the document, usually derived from
	// the source file name.
	Name string `json:"name,omitempty"`

	// Content is the text content of the document.
	Content string `json:"content"`

	// Metadata holds additional information about the document.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is the creation time of the document.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the last update time of the document.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsEmpty reports whether the document has no non-whitespace content.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	clone := *d
	if d.Metadata != nil {
		clone.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}
