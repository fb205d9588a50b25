//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

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
	sqliteCreateDocuments = "CREATE TABLE IF NOT EXISTS documents (" +
		"id TEXT PRIMARY KEY, " +
		"filename TEXT NOT NULL, " +
		"file_size INTEGER NOT NULL, " +
		"uploaded_at INTEGER NOT NULL, " +
		"processed INTEGER NOT NULL DEFAULT 0, " +
		"chunk_count INTEGER NOT NULL DEFAULT 0, " +
		"collection_name TEXT NOT NULL DEFAULT ''" +
		")"

	sqliteInsertDocument = "INSERT INTO documents (" +
		"id, filename, file_size, uploaded_at, processed, chunk_count, collection_name) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?)"

	sqliteSelectDocument = "SELECT id, filename, file_size, uploaded_at, processed, chunk_count, " +
		"collection_name FROM documents WHERE id = ? LIMIT 1"

	sqliteSelectDocuments = "SELECT id, filename, file_size, uploaded_at, processed, chunk_count, " +
		"collection_name FROM documents ORDER BY uploaded_at DESC, rowid DESC"

	sqliteMarkProcessed = "UPDATE documents SET processed = 1, chunk_count = ?, collection_name = ? " +
		"WHERE id = ?"

	sqliteDeleteDocument = "DELETE FROM documents WHERE id = ?"
)

var _ storage.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a SQLite-backed implementation of storage.DocumentStore.
// It expects an initialized *sql.DB and will create the required schema.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new document store using the provided DB.
// The DB must use a SQLite driver. The constructor creates tables if needed.
func NewDocumentStore(db *sql.DB) (*DocumentStore, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if _, err := db.Exec(sqliteCreateDocuments); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &DocumentStore{db: db}, nil
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
	if _, err := s.db.ExecContext(ctx, sqliteInsertDocument,
		stored.ID, stored.Filename, stored.FileSize, stored.UploadedAt.UnixNano(),
		stored.Processed, stored.ChunkCount, stored.CollectionName); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return stored, nil
}

// GetDocument gets a document by id.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*storage.Document, error) {
	row := s.db.QueryRowContext(ctx, sqliteSelectDocument, id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return d, nil
}

// ListDocuments lists all documents, newest first.
func (s *DocumentStore) ListDocuments(ctx context.Context) ([]*storage.Document, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectDocuments)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	documents := make([]*storage.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
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
	res, err := s.db.ExecContext(ctx, sqliteMarkProcessed, chunkCount, collection, id)
	if err != nil {
		return nil, fmt.Errorf("mark document processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("mark document rows affected: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrDocumentNotFound
	}
	return s.GetDocument(ctx, id)
}

// DeleteDocument deletes a document by id.
func (s *DocumentStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, sqliteDeleteDocument, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrDocumentNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the store. The database handle is owned by the caller and
// stays open.
func (s *DocumentStore) Close() error {
	return nil
}

func scanDocument(row rowScanner) (*storage.Document, error) {
	var (
		d          storage.Document
		uploadedAt int64
	)
	if err := row.Scan(&d.ID, &d.Filename, &d.FileSize, &uploadedAt,
		&d.Processed, &d.ChunkCount, &d.CollectionName); err != nil {
		return nil, err
	}
	d.UploadedAt = time.Unix(0, uploadedAt).UTC()
	return &d, nil
}
