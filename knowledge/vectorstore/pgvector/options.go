//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package pgvector

// Default connection settings.
const (
	defaultHost     = "localhost"
	defaultPort     = 5432
	defaultUser     = "postgres"
	defaultDatabase = "trpc-flow-go"
	defaultSSLMode  = "disable"
)

// Default storage settings.
const (
	defaultTablePrefix    = "flow_kb_"
	defaultIndexDimension = 1536
)

// Default HNSW index parameters.
const (
	defaultHNSWM              = 16
	defaultHNSWEfConstruction = 64
)

// Default IVFFlat index parameters.
const (
	defaultIVFFlatLists = 100
)

// VectorIndexType selects the index built on the embedding column.
type VectorIndexType string

const (
	// VectorIndexHNSW builds an HNSW index (better recall, slower build).
	VectorIndexHNSW VectorIndexType = "hnsw"
	// VectorIndexIVFFlat builds an IVFFlat index (faster build, needs tuning).
	VectorIndexIVFFlat VectorIndexType = "ivfflat"
)

// HNSWIndexParams are the tunables of an HNSW index.
type HNSWIndexParams struct {
	// M is the maximum number of connections per layer.
	M int
	// EfConstruction is the size of the candidate list during index build.
	EfConstruction int
}

// IVFFlatIndexParams are the tunables of an IVFFlat index.
type IVFFlatIndexParams struct {
	// Lists is the number of inverted lists.
	Lists int
}

// options holds the pgvector store configuration.
type options struct {
	dsn      string
	host     string
	port     int
	user     string
	password string
	database string
	sslMode  string

	tablePrefix    string
	indexDimension int
	skipSchemaInit bool

	vectorIndexType VectorIndexType
	hnswParams      *HNSWIndexParams
	ivfflatParams   *IVFFlatIndexParams
}

var defaultOptions = options{
	host:            defaultHost,
	port:            defaultPort,
	user:            defaultUser,
	database:        defaultDatabase,
	sslMode:         defaultSSLMode,
	tablePrefix:     defaultTablePrefix,
	indexDimension:  defaultIndexDimension,
	vectorIndexType: VectorIndexHNSW,
	hnswParams: &HNSWIndexParams{
		M:              defaultHNSWM,
		EfConstruction: defaultHNSWEfConstruction,
	},
	ivfflatParams: &IVFFlatIndexParams{
		Lists: defaultIVFFlatLists,
	},
}

// Option configures the pgvector vector store.
type Option func(*options)

// WithDSN sets the full connection string. It takes precedence over the
// individual connection settings.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithHost sets the PostgreSQL host.
func WithHost(host string) Option {
	return func(o *options) {
		o.host = host
	}
}

// WithPort sets the PostgreSQL port.
func WithPort(port int) Option {
	return func(o *options) {
		o.port = port
	}
}

// WithUser sets the PostgreSQL user.
func WithUser(user string) Option {
	return func(o *options) {
		o.user = user
	}
}

// WithPassword sets the PostgreSQL password.
func WithPassword(password string) Option {
	return func(o *options) {
		o.password = password
	}
}

// WithDatabase sets the PostgreSQL database name.
func WithDatabase(database string) Option {
	return func(o *options) {
		o.database = database
	}
}

// WithSSLMode sets the PostgreSQL SSL mode.
func WithSSLMode(sslMode string) Option {
	return func(o *options) {
		o.sslMode = sslMode
	}
}

// WithTablePrefix sets the prefix prepended to collection table names.
func WithTablePrefix(prefix string) Option {
	return func(o *options) {
		o.tablePrefix = prefix
	}
}

// WithIndexDimension sets the embedding dimension of stored vectors.
func WithIndexDimension(dimension int) Option {
	return func(o *options) {
		if dimension > 0 {
			o.indexDimension = dimension
		}
	}
}

// WithSkipSchemaInit disables automatic creation of the vector extension,
// collection tables and indexes. Use it when the connecting role has no DDL
// privilege and the schema is managed externally.
func WithSkipSchemaInit(skip bool) Option {
	return func(o *options) {
		o.skipSchemaInit = skip
	}
}

// WithVectorIndexType sets the vector index type.
func WithVectorIndexType(indexType VectorIndexType) Option {
	return func(o *options) {
		o.vectorIndexType = indexType
	}
}

// WithHNSWIndexParams sets custom HNSW index parameters.
func WithHNSWIndexParams(params *HNSWIndexParams) Option {
	return func(o *options) {
		if params != nil {
			o.hnswParams = params
		}
	}
}

// WithIVFFlatIndexParams sets custom IVFFlat index parameters.
func WithIVFFlatIndexParams(params *IVFFlatIndexParams) Option {
	return func(o *options) {
		if params != nil {
			o.ivfflatParams = params
		}
	}
}
