//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package storage provides persistence for workflow definitions and
// document metadata.
//
// Workflow definitions are stored with their node and edge JSON kept
// verbatim, so authoring frontends can round-trip fields the engine does
// not interpret. Implementations live in the inmemory and sqlite
// subpackages.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trpc.group/trpc-go/trpc-flow-go/workflow"
)

var (
	// ErrWorkflowNotFound is returned when the requested workflow does not exist.
	ErrWorkflowNotFound = errors.New("workflow not found")
	// ErrDocumentNotFound is returned when the requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNameRequired is the error for workflow name required.
	ErrNameRequired = errors.New("workflow name is required")
	// ErrFilenameRequired is the error for document filename required.
	ErrFilenameRequired = errors.New("document filename is required")
)

// Workflow is a stored workflow definition.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Nodes       json.RawMessage `json:"nodes"`
	Edges       json.RawMessage `json:"edges"`
	IsValid     bool            `json:"is_valid"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Definition decodes the stored node and edge JSON into an executable
// workflow definition.
func (w *Workflow) Definition() (*workflow.Workflow, error) {
	def := &workflow.Workflow{ID: w.ID}
	if len(w.Nodes) > 0 {
		if err := json.Unmarshal(w.Nodes, &def.Nodes); err != nil {
			return nil, fmt.Errorf("decode workflow nodes: %w", err)
		}
	}
	if len(w.Edges) > 0 {
		if err := json.Unmarshal(w.Edges, &def.Edges); err != nil {
			return nil, fmt.Errorf("decode workflow edges: %w", err)
		}
	}
	return def, nil
}

// Document is the stored metadata of an uploaded document. The file bytes
// themselves live in the artifact service keyed by the document id.
type Document struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	FileSize       int64     `json:"file_size"`
	UploadedAt     time.Time `json:"uploaded_at"`
	Processed      bool      `json:"processed"`
	ChunkCount     int       `json:"chunk_count"`
	CollectionName string    `json:"collection_name,omitempty"`
}

// WorkflowStore persists workflow definitions.
type WorkflowStore interface {
	// CreateWorkflow stores a new workflow. The id is generated when empty
	// and both timestamps are set by the store.
	CreateWorkflow(ctx context.Context, w *Workflow) (*Workflow, error)

	// GetWorkflow gets a workflow by id. It returns ErrWorkflowNotFound
	// when the workflow does not exist.
	GetWorkflow(ctx context.Context, id string) (*Workflow, error)

	// ListWorkflows lists all workflows, newest first.
	ListWorkflows(ctx context.Context) ([]*Workflow, error)

	// UpdateWorkflow replaces the stored fields of w and bumps its
	// updated_at timestamp.
	UpdateWorkflow(ctx context.Context, w *Workflow) (*Workflow, error)

	// DeleteWorkflow deletes a workflow by id.
	DeleteWorkflow(ctx context.Context, id string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store.
	Close() error
}

// DocumentStore persists document metadata.
type DocumentStore interface {
	// CreateDocument stores a new document record. The id is generated
	// when empty and the upload timestamp is set by the store.
	CreateDocument(ctx context.Context, d *Document) (*Document, error)

	// GetDocument gets a document by id. It returns ErrDocumentNotFound
	// when the document does not exist.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// ListDocuments lists all documents, newest first.
	ListDocuments(ctx context.Context) ([]*Document, error)

	// MarkDocumentProcessed records a completed ingestion: the chunk count
	// and the vector collection the chunks were stored in.
	MarkDocumentProcessed(ctx context.Context, id string, chunkCount int, collection string) (*Document, error)

	// DeleteDocument deletes a document by id.
	DeleteDocument(ctx context.Context, id string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store.
	Close() error
}

// OrEmptyArray normalizes absent node or edge JSON to an empty array so
// stored definitions always decode. Store implementations apply it on
// create and update.
func OrEmptyArray(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("[]")
	}
	return raw
}
