//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package model provides the interface and types for chat model backends.
package model

import "context"

// Model is the interface that all chat model backends implement.
type Model interface {
	// GenerateContent sends a chat request and returns the complete response.
	GenerateContent(ctx context.Context, request *Request) (*Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info holds basic information about a model.
type Info struct {
	// Name is the model identifier, e.g. "gpt-4o-mini".
	Name string
}
