//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package cos provides a Tencent Cloud Object Storage (COS) implementation of the artifact service.
//
// Each artifact is stored as a single object named {prefix}{key}, where the
// prefix defaults to "documents/" and the key is the owning document's id.
//
// Authentication:
// The service requires COS credentials which can be provided via:
// - Environment variables: COS_SECRETID and COS_SECRETKEY (recommended)
// - Option functions: WithSecretID() and WithSecretKey()
//
// Example:
//
//	// Set environment variables
//	export COS_SECRETID="your-secret-id"
//	export COS_SECRETKEY="your-secret-key"
//
//	// Create service
//	service := cos.NewService("https://bucket.cos.region.myqcloud.com")
package cos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"

	"trpc.group/trpc-go/trpc-flow-go/artifact"
)

var _ artifact.Service = (*Service)(nil)

// Service is a Tencent Cloud Object Storage implementation of the artifact service.
// It provides cloud-based storage for uploaded document files using Tencent COS.
type Service struct {
	cosClient *cos.Client
	prefix    string
}

const (
	defaultTimeout = 60 * time.Second
	defaultPrefix  = "documents/"
)

// NewService creates a new COS artifact service with optional configurations.
//
// Authentication credentials can be provided in multiple ways:
// 1. Set environment variables COS_SECRETID and COS_SECRETKEY (recommended)
// 2. Use WithSecretID() and WithSecretKey() options
// 3. Use WithClient() to provide a pre-configured COS client directly
//
// Example usage:
//
//	// Using environment variables (set COS_SECRETID and COS_SECRETKEY)
//	service := cos.NewService("https://bucket.cos.region.myqcloud.com")
//
//	// Using option functions
//	service := cos.NewService(
//	    "https://bucket.cos.region.myqcloud.com",
//	    cos.WithSecretID("your-secret-id"),
//	    cos.WithSecretKey("your-secret-key"),
//	    cos.WithTimeout(30*time.Second),
//	)
func NewService(bucketURL string, opts ...Option) *Service {
	// Set default options
	options := &options{
		timeout:   defaultTimeout,
		secretID:  os.Getenv("COS_SECRETID"),
		secretKey: os.Getenv("COS_SECRETKEY"),
		prefix:    defaultPrefix,
	}

	// Apply provided options
	for _, opt := range opts {
		opt(options)
	}
	if options.prefix != "" && !strings.HasSuffix(options.prefix, "/") {
		options.prefix += "/"
	}

	// If a COS client is directly provided, use it
	if options.cosClient != nil {
		return &Service{
			cosClient: options.cosClient,
			prefix:    options.prefix,
		}
	}

	u, _ := url.Parse(bucketURL)
	b := &cos.BaseURL{BucketURL: u}

	// Use provided HTTP client or create a default one
	var httpClient *http.Client
	if options.httpClient != nil {
		httpClient = options.httpClient
		// If user provided their own client but no timeout was explicitly set,
		// and the client doesn't have a timeout, set our default timeout
		if httpClient.Timeout == 0 && options.timeout > 0 {
			// Create a copy to avoid modifying the user's client
			httpClient = &http.Client{
				Timeout:   options.timeout,
				Transport: httpClient.Transport,
			}
		}
	} else {
		// Create default HTTP client with COS authentication
		httpClient = &http.Client{
			Timeout: options.timeout,
			Transport: &cos.AuthorizationTransport{
				SecretID:  options.secretID,
				SecretKey: options.secretKey,
			},
		}
	}

	return &Service{
		cosClient: cos.NewClient(b, httpClient),
		prefix:    options.prefix,
	}
}

// SaveArtifact uploads the artifact to Tencent Cloud Object Storage.
func (s *Service) SaveArtifact(ctx context.Context, key string, art *artifact.Artifact) error {
	if art == nil {
		return errors.New("artifact is nil")
	}

	// Upload the artifact data
	reader := bytes.NewReader(art.Data)
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: art.MimeType,
		},
	}

	_, err := s.cosClient.Object.Put(ctx, s.objectName(key), reader, opt)
	if err != nil {
		return fmt.Errorf("failed to upload artifact: %w", err)
	}
	return nil
}

// LoadArtifact downloads an artifact from Tencent Cloud Object Storage.
func (s *Service) LoadArtifact(ctx context.Context, key string) (*artifact.Artifact, error) {
	resp, err := s.cosClient.Object.Get(ctx, s.objectName(key), nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil, artifact.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to download artifact: %w", err)
	}
	defer resp.Body.Close()

	// Read the data
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact data: %w", err)
	}

	// Get content type from response headers
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &artifact.Artifact{
		Data:     data,
		MimeType: contentType,
		Name:     key,
	}, nil
}

// DeleteArtifact deletes an artifact from Tencent Cloud Object Storage.
// Deleting a missing artifact is not an error.
func (s *Service) DeleteArtifact(ctx context.Context, key string) error {
	_, err := s.cosClient.Object.Delete(ctx, s.objectName(key))
	if err != nil && !cos.IsNotFoundError(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// ListArtifactKeys lists the keys of all stored artifacts under the configured prefix.
func (s *Service) ListArtifactKeys(ctx context.Context) ([]string, error) {
	result, _, err := s.cosClient.Bucket.Get(ctx, &cos.BucketGetOptions{
		Prefix: s.prefix,
	})
	if err != nil {
		if cos.IsNotFoundError(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	keys := make([]string, 0, len(result.Contents))
	for _, obj := range result.Contents {
		key := strings.TrimPrefix(obj.Key, s.prefix)
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Service) objectName(key string) string {
	return s.prefix + key
}
