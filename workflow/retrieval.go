//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-flow-go/knowledge/embedder"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-flow-go/log"
)

// defaultTopK is the number of chunks retrieved per query when the node
// config does not set top_k.
const defaultTopK = 5

// retrieval embeds the payload query and pulls the closest chunks from
// the configured collection.
type retrieval struct {
	nodeID      string
	collection  string
	topK        int
	embedder    embedder.Embedder
	vectorStore vectorstore.VectorStore
}

var _ Component = (*retrieval)(nil)

func newRetrieval(nodeID string, config map[string]any, emb embedder.Embedder, vs vectorstore.VectorStore) *retrieval {
	return &retrieval{
		nodeID:      nodeID,
		collection:  configString(config, CfgKeyCollectionName, fmt.Sprintf("kb_%s", nodeID)),
		topK:        configInt(config, CfgKeyTopK, defaultTopK),
		embedder:    emb,
		vectorStore: vs,
	}
}

// Kind implements Component.
func (c *retrieval) Kind() NodeKind {
	return KindKnowledgeBase
}

// Execute retrieves context for the payload query. An empty query or a
// missing collection yields empty context rather than a failure; provider
// errors fail the node.
func (c *retrieval) Execute(ctx context.Context, payload Payload) (Payload, error) {
	query, _ := payload[KeyQuery].(string)
	if query == "" {
		log.Warnf("No query provided to Knowledge Base component")
		return c.emptyResult(query), nil
	}
	log.Infof("Knowledge Base retrieving context for query: %.100s...", query)

	if c.embedder == nil {
		return nil, errors.New("embedder not configured")
	}
	if c.vectorStore == nil {
		return nil, errors.New("vector store not configured")
	}

	exists, err := c.vectorStore.CollectionExists(ctx, c.collection)
	if err != nil {
		log.Errorf("Error retrieving from knowledge base: %v", err)
		return nil, fmt.Errorf("failed to check collection %s: %w", c.collection, err)
	}
	if !exists {
		log.Warnf("Collection %q does not exist", c.collection)
		return c.emptyResult(query), nil
	}

	vector, err := c.embedder.GetEmbedding(ctx, query)
	if err != nil {
		log.Errorf("Error retrieving from knowledge base: %v", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := c.vectorStore.Search(ctx, c.collection, vector, c.topK)
	if err != nil {
		log.Errorf("Error retrieving from knowledge base: %v", err)
		return nil, fmt.Errorf("failed to search collection %s: %w", c.collection, err)
	}

	documents := make([]string, 0, len(matches))
	distances := make([]float64, 0, len(matches))
	for _, match := range matches {
		documents = append(documents, match.Document.Content)
		distances = append(distances, match.Distance)
	}
	log.Infof("Retrieved %d relevant chunks", len(documents))

	return Payload{
		KeyContext:       strings.Join(documents, "\n\n"),
		KeyQuery:         query,
		KeyDocuments:     documents,
		KeyDistances:     distances,
		KeyComponentType: string(KindKnowledgeBase),
		KeyNodeID:        c.nodeID,
	}, nil
}

// emptyResult is the payload returned when no context can be retrieved.
func (c *retrieval) emptyResult(query string) Payload {
	return Payload{
		KeyContext:   "",
		KeyQuery:     query,
		KeyDocuments: []string{},
	}
}
