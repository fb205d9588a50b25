//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package pgvector provides a PostgreSQL vector store backed by the pgvector
// extension.
//
// Each collection maps to its own table named "<prefix><collection>" with a
// cosine-distance index on the embedding column. Tables are created on first
// upsert.
package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	// Register the lib/pq driver.
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	itelemetry "trpc.group/trpc-go/trpc-flow-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
)

// SQL templates (PostgreSQL with pgvector syntax).
const (
	sqlCreateExtension = "CREATE EXTENSION IF NOT EXISTS vector"

	sqlCreateTablePattern = "CREATE TABLE IF NOT EXISTS %s (" +
		"id TEXT PRIMARY KEY," +
		"content TEXT NOT NULL," +
		"embedding vector(%d)," +
		"metadata JSONB," +
		"created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP," +
		"updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP" +
		")"

	sqlCreateHNSWIndexPattern = "CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw " +
		"(embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d)"

	sqlCreateIVFFlatIndexPattern = "CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING ivfflat " +
		"(embedding vector_cosine_ops) WITH (lists = %d)"

	sqlUpsertPattern = "INSERT INTO %s (id, content, embedding, metadata, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6) " +
		"ON CONFLICT (id) DO UPDATE SET " +
		"content = EXCLUDED.content, " +
		"embedding = EXCLUDED.embedding, " +
		"metadata = EXCLUDED.metadata, " +
		"updated_at = EXCLUDED.updated_at"

	sqlSearchPattern = "SELECT id, content, metadata, embedding <=> $1 AS distance " +
		"FROM %s ORDER BY embedding <=> $1 LIMIT %d"

	sqlTableExists = "SELECT EXISTS (SELECT 1 FROM information_schema.tables " +
		"WHERE table_schema = 'public' AND table_name = $1)"

	sqlDropTablePattern = "DROP TABLE IF EXISTS %s"
)

// HandlerFunc processes the rows returned by a query.
type HandlerFunc func(rows *sql.Rows) error

// Client is the minimal database client the store needs. *sql.DB satisfies
// it through sqlClient; tests may substitute their own implementation.
type Client interface {
	// ExecContext executes a statement without returning rows.
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	// Query runs a query and passes the rows to handler.
	Query(ctx context.Context, handler HandlerFunc, query string, args ...any) error
	// Close closes the underlying connection pool.
	Close() error
}

// sqlClient adapts *sql.DB to the Client interface.
type sqlClient struct {
	db *sql.DB
}

func (c *sqlClient) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

func (c *sqlClient) Query(ctx context.Context, handler HandlerFunc, query string, args ...any) error {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if err := handler(rows); err != nil {
		return err
	}
	return rows.Err()
}

func (c *sqlClient) Close() error {
	return c.db.Close()
}

var _ vectorstore.VectorStore = (*VectorStore)(nil)

// VectorStore is a pgvector-backed implementation of vectorstore.VectorStore.
type VectorStore struct {
	client Client
	option options

	mu             sync.Mutex
	extensionReady bool
	initialized    map[string]bool
}

// New creates a pgvector vector store. The connection is established lazily
// on first use.
func New(opts ...Option) (*VectorStore, error) {
	option := defaultOptions
	for _, opt := range opts {
		opt(&option)
	}

	dsn := option.dsn
	if dsn == "" {
		dsn = buildConnString(option)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection failed: %w", err)
	}

	return &VectorStore{
		client:      &sqlClient{db: db},
		option:      option,
		initialized: make(map[string]bool),
	}, nil
}

// buildConnString builds a PostgreSQL connection string from options.
func buildConnString(option options) string {
	var conn strings.Builder
	fmt.Fprintf(&conn, "host=%s port=%d dbname=%s sslmode=%s",
		option.host, option.port, option.database, option.sslMode)
	if option.user != "" {
		fmt.Fprintf(&conn, " user=%s", option.user)
	}
	if option.password != "" {
		fmt.Fprintf(&conn, " password=%s", option.password)
	}
	return conn.String()
}

// Upsert stores documents in the named collection, creating the collection
// table and its indexes on first use.
func (vs *VectorStore) Upsert(ctx context.Context, collection string, docs ...*vectorstore.Document) error {
	if collection == "" {
		return vectorstore.ErrEmptyCollectionName
	}
	for _, doc := range docs {
		if doc == nil || doc.ID == "" {
			return vectorstore.ErrEmptyDocumentID
		}
		if len(doc.Vector) != vs.option.indexDimension {
			return fmt.Errorf("embedding dimension mismatch: expected %d, got %d",
				vs.option.indexDimension, len(doc.Vector))
		}
	}

	table := vs.tableName(collection)
	if err := vs.ensureSchema(ctx, table); err != nil {
		return err
	}

	upsertSQL := fmt.Sprintf(sqlUpsertPattern, table)
	now := time.Now()
	for _, doc := range docs {
		metadataJSON, err := marshalMetadata(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for document %s failed: %w", doc.ID, err)
		}
		vector := pgvector.NewVector(convertToFloat32(doc.Vector))
		if _, err := vs.client.ExecContext(ctx, upsertSQL,
			doc.ID, doc.Content, vector, metadataJSON, now, now); err != nil {
			return fmt.Errorf("upsert document %s failed: %w", doc.ID, err)
		}
	}
	return nil
}

// Search returns up to limit documents ordered by ascending cosine distance
// to the query vector.
func (vs *VectorStore) Search(
	ctx context.Context,
	collection string,
	vector []float64,
	limit int,
) ([]*vectorstore.ScoredDocument, error) {
	if collection == "" {
		return nil, vectorstore.ErrEmptyCollectionName
	}
	if limit <= 0 {
		return nil, vectorstore.ErrInvalidLimit
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("search vector cannot be empty")
	}
	if len(vector) != vs.option.indexDimension {
		return nil, fmt.Errorf("query embedding dimension mismatch: expected %d, got %d",
			vs.option.indexDimension, len(vector))
	}

	ctx, span := itelemetry.Tracer.Start(
		ctx,
		fmt.Sprintf("%s %s", itelemetry.OperationSearchStore, collection),
		trace.WithAttributes(attribute.String(itelemetry.KeyCollection, collection)),
	)
	defer span.End()

	exists, err := vs.CollectionExists(ctx, collection)
	if err != nil {
		itelemetry.TraceError(span, "db_error", err.Error())
		return nil, err
	}
	if !exists {
		err := fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, collection)
		itelemetry.TraceError(span, "collection_not_found", err.Error())
		return nil, err
	}

	searchSQL := fmt.Sprintf(sqlSearchPattern, vs.tableName(collection), limit)
	queryVector := pgvector.NewVector(convertToFloat32(vector))

	results := make([]*vectorstore.ScoredDocument, 0, limit)
	err = vs.client.Query(ctx, func(rows *sql.Rows) error {
		for rows.Next() {
			scored, err := scanScoredDocument(rows)
			if err != nil {
				return err
			}
			results = append(results, scored)
		}
		return nil
	}, searchSQL, queryVector)
	if err != nil {
		itelemetry.TraceError(span, "db_error", err.Error())
		return nil, fmt.Errorf("search collection %s failed: %w", collection, err)
	}
	return results, nil
}

// CollectionExists reports whether the collection table exists.
func (vs *VectorStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	if collection == "" {
		return false, vectorstore.ErrEmptyCollectionName
	}

	var exists bool
	err := vs.client.Query(ctx, func(rows *sql.Rows) error {
		if rows.Next() {
			return rows.Scan(&exists)
		}
		return nil
	}, sqlTableExists, vs.tableName(collection))
	if err != nil {
		return false, fmt.Errorf("check collection %s failed: %w", collection, err)
	}
	return exists, nil
}

// DeleteCollection drops the collection table.
func (vs *VectorStore) DeleteCollection(ctx context.Context, collection string) error {
	if collection == "" {
		return vectorstore.ErrEmptyCollectionName
	}

	table := vs.tableName(collection)
	if _, err := vs.client.ExecContext(ctx, fmt.Sprintf(sqlDropTablePattern, table)); err != nil {
		return fmt.Errorf("drop collection %s failed: %w", collection, err)
	}

	vs.mu.Lock()
	delete(vs.initialized, table)
	vs.mu.Unlock()
	return nil
}

// Close closes the database connection.
func (vs *VectorStore) Close() error {
	if vs.client != nil {
		return vs.client.Close()
	}
	return nil
}

// tableName maps a collection name to its table name. Collection names may
// contain characters that are not valid in unquoted identifiers (the usual
// source is UUID-derived names), so everything outside [a-z0-9_] is folded
// to an underscore.
func (vs *VectorStore) tableName(collection string) string {
	return vs.option.tablePrefix + sanitizeCollection(collection)
}

func sanitizeCollection(collection string) string {
	var b strings.Builder
	b.Grow(len(collection))
	for _, r := range strings.ToLower(collection) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ensureSchema creates the extension, table and vector index once per
// collection table.
func (vs *VectorStore) ensureSchema(ctx context.Context, table string) error {
	if vs.option.skipSchemaInit {
		return nil
	}

	vs.mu.Lock()
	defer vs.mu.Unlock()
	if vs.initialized[table] {
		return nil
	}

	if !vs.extensionReady {
		if _, err := vs.client.ExecContext(ctx, sqlCreateExtension); err != nil {
			return fmt.Errorf("enable pgvector extension failed: %w", err)
		}
		vs.extensionReady = true
	}

	tableSQL := fmt.Sprintf(sqlCreateTablePattern, table, vs.option.indexDimension)
	if _, err := vs.client.ExecContext(ctx, tableSQL); err != nil {
		return fmt.Errorf("create table %s failed: %w", table, err)
	}

	if err := vs.createVectorIndex(ctx, table); err != nil {
		return err
	}

	vs.initialized[table] = true
	return nil
}

// createVectorIndex creates the configured vector index on the embedding
// column of the given table.
func (vs *VectorStore) createVectorIndex(ctx context.Context, table string) error {
	var indexSQL string
	switch vs.option.vectorIndexType {
	case VectorIndexHNSW:
		m := defaultHNSWM
		efConstruction := defaultHNSWEfConstruction
		if params := vs.option.hnswParams; params != nil {
			if params.M > 0 {
				m = params.M
			}
			if params.EfConstruction > 0 {
				efConstruction = params.EfConstruction
			}
		}
		indexSQL = fmt.Sprintf(sqlCreateHNSWIndexPattern, table, table, m, efConstruction)
	case VectorIndexIVFFlat:
		lists := defaultIVFFlatLists
		if params := vs.option.ivfflatParams; params != nil && params.Lists > 0 {
			lists = params.Lists
		}
		indexSQL = fmt.Sprintf(sqlCreateIVFFlatIndexPattern, table, table, lists)
	default:
		return fmt.Errorf("unsupported vector index type: %s", vs.option.vectorIndexType)
	}

	if _, err := vs.client.ExecContext(ctx, indexSQL); err != nil {
		return fmt.Errorf("create vector index (%s) on table %s failed: %w",
			vs.option.vectorIndexType, table, err)
	}
	return nil
}

// scanScoredDocument scans one search result row.
func scanScoredDocument(rows *sql.Rows) (*vectorstore.ScoredDocument, error) {
	var (
		id          string
		content     string
		metadataRaw []byte
		distance    float64
	)
	if err := rows.Scan(&id, &content, &metadataRaw, &distance); err != nil {
		return nil, fmt.Errorf("scan search result failed: %w", err)
	}

	var metadata map[string]any
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for document %s failed: %w", id, err)
		}
	}

	return &vectorstore.ScoredDocument{
		Document: &vectorstore.Document{
			ID:       id,
			Content:  content,
			Metadata: metadata,
		},
		Distance: distance,
	}, nil
}

// marshalMetadata serializes document metadata as JSONB input.
func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	return json.Marshal(metadata)
}

// convertToFloat32 converts a float64 slice to float32 for pgvector.
func convertToFloat32(embedding []float64) []float32 {
	result := make([]float32, len(embedding))
	for i, v := range embedding {
		result[i] = float32(v)
	}
	return result
}
