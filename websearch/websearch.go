//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package websearch defines the interface for web search providers.
package websearch

import (
	"context"
	"fmt"
	"strings"
)

// Result is a single web search hit.
type Result struct {
	// Title is the result title.
	Title string `json:"title"`
	// Snippet is a short text extract of the result.
	Snippet string `json:"snippet"`
	// Link is the result URL.
	Link string `json:"link,omitempty"`
}

// Client performs web searches.
type Client interface {
	// Search returns up to limit results for the query.
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Format renders results as a numbered text block suitable for prompt
// context. Each entry is "{n}. {title}\n{snippet}" with entries separated
// by blank lines.
func Format(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("%d. %s\n%s", i+1, r.Title, r.Snippet))
	}
	return strings.Join(parts, "\n\n")
}
