//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package sqlite provides SQLite-backed workflow and document stores.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-flow-go/storage"
)

const (
	sqliteCreateWorkflows = "CREATE TABLE IF NOT EXISTS workflows (" +
		"id TEXT PRIMARY KEY, " +
		"name TEXT NOT NULL, " +
		"description TEXT NOT NULL DEFAULT '', " +
		"nodes_json BLOB NOT NULL, " +
		"edges_json BLOB NOT NULL, " +
		"is_valid INTEGER NOT NULL DEFAULT 0, " +
		"created_at INTEGER NOT NULL, " +
		"updated_at INTEGER NOT NULL" +
		")"

	sqliteInsertWorkflow = "INSERT INTO workflows (" +
		"id, name, description, nodes_json, edges_json, is_valid, created_at, updated_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	sqliteSelectWorkflow = "SELECT id, name, description, nodes_json, edges_json, is_valid, " +
		"created_at, updated_at FROM workflows WHERE id = ? LIMIT 1"

	sqliteSelectWorkflows = "SELECT id, name, description, nodes_json, edges_json, is_valid, " +
		"created_at, updated_at FROM workflows ORDER BY created_at DESC, rowid DESC"

	sqliteUpdateWorkflow = "UPDATE workflows SET name = ?, description = ?, nodes_json = ?, " +
		"edges_json = ?, is_valid = ?, updated_at = ? WHERE id = ?"

	sqliteDeleteWorkflow = "DELETE FROM workflows WHERE id = ?"
)

var _ storage.WorkflowStore = (*WorkflowStore)(nil)

// WorkflowStore is a SQLite-backed implementation of storage.WorkflowStore.
// It expects an initialized *sql.DB and will create the required schema.
type WorkflowStore struct {
	db *sql.DB
}

// NewWorkflowStore creates a new workflow store using the provided DB.
// The DB must use a SQLite driver. The constructor creates tables if needed.
func NewWorkflowStore(db *sql.DB) (*WorkflowStore, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if _, err := db.Exec(sqliteCreateWorkflows); err != nil {
		return nil, fmt.Errorf("create workflows table: %w", err)
	}
	return &WorkflowStore{db: db}, nil
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
		Nodes:       storage.OrEmptyArray(w.Nodes),
		Edges:       storage.OrEmptyArray(w.Edges),
		IsValid:     w.IsValid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, err := s.db.ExecContext(ctx, sqliteInsertWorkflow,
		stored.ID, stored.Name, stored.Description, []byte(stored.Nodes), []byte(stored.Edges),
		stored.IsValid, stored.CreatedAt.UnixNano(), stored.UpdatedAt.UnixNano()); err != nil {
		return nil, fmt.Errorf("insert workflow: %w", err)
	}
	return stored, nil
}

// GetWorkflow gets a workflow by id.
func (s *WorkflowStore) GetWorkflow(ctx context.Context, id string) (*storage.Workflow, error) {
	row := s.db.QueryRowContext(ctx, sqliteSelectWorkflow, id)
	w, err := scanWorkflow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("select workflow: %w", err)
	}
	return w, nil
}

// ListWorkflows lists all workflows, newest first.
func (s *WorkflowStore) ListWorkflows(ctx context.Context) ([]*storage.Workflow, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectWorkflows)
	if err != nil {
		return nil, fmt.Errorf("select workflows: %w", err)
	}
	defer rows.Close()

	workflows := make([]*storage.Workflow, 0)
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
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
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, sqliteUpdateWorkflow,
		w.Name, w.Description, []byte(storage.OrEmptyArray(w.Nodes)), []byte(storage.OrEmptyArray(w.Edges)),
		w.IsValid, now.UnixNano(), w.ID)
	if err != nil {
		return nil, fmt.Errorf("update workflow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update workflow rows affected: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrWorkflowNotFound
	}
	return s.GetWorkflow(ctx, w.ID)
}

// DeleteWorkflow deletes a workflow by id.
func (s *WorkflowStore) DeleteWorkflow(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, sqliteDeleteWorkflow, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workflow rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrWorkflowNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *WorkflowStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the store. The database handle is owned by the caller and
// stays open.
func (s *WorkflowStore) Close() error {
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*storage.Workflow, error) {
	var (
		w         storage.Workflow
		nodes     []byte
		edges     []byte
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&w.ID, &w.Name, &w.Description, &nodes, &edges,
		&w.IsValid, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	w.Nodes = nodes
	w.Edges = edges
	w.CreatedAt = time.Unix(0, createdAt).UTC()
	w.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &w, nil
}
