//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package serpapi provides a SerpAPI-backed web search client.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trpc.group/trpc-go/trpc-flow-go/log"
	"trpc.group/trpc-go/trpc-flow-go/websearch"
)

// Verify that Client implements the websearch.Client interface.
var _ websearch.Client = (*Client)(nil)

const (
	defaultBaseURL = "https://serpapi.com/search"
	defaultEngine  = "google"
	defaultTimeout = 30 * time.Second

	// DefaultLimit is the default number of results returned by a search.
	DefaultLimit = 5
)

// Client implements the websearch.Client interface using the SerpAPI
// HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	engine     string
	httpClient *http.Client
}

// Option represents a functional option for configuring the Client.
type Option func(*Client)

// WithAPIKey sets the SerpAPI API key.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithBaseURL overrides the SerpAPI endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithEngine sets the search engine parameter. Default is "google".
func WithEngine(engine string) Option {
	return func(c *Client) {
		c.engine = engine
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a new SerpAPI client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		engine:     defaultEngine,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse mirrors the SerpAPI response fields we consume.
type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error"`
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Search implements the websearch.Client interface.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]websearch.Result, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi api key not configured")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("engine", c.engine)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", apiResp.Error)
	}

	results := make([]websearch.Result, 0, limit)
	for _, r := range apiResp.OrganicResults {
		if len(results) == limit {
			break
		}
		results = append(results, websearch.Result{
			Title:   r.Title,
			Snippet: r.Snippet,
			Link:    r.Link,
		})
	}
	log.Debugf("serpapi search returned %d organic result(s) for query %q", len(apiResp.OrganicResults), query)
	return results, nil
}
