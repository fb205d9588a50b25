//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package artifact provides storage for uploaded document files.
package artifact

// Artifact is a stored file: the raw bytes plus wire metadata.
type Artifact struct {
	// Data contains the raw bytes (required).
	Data []byte `json:"data,omitempty"`
	// MimeType is the IANA standard MIME type of the data (required).
	MimeType string `json:"mime_type,omitempty"`
	// Name is an optional display name, typically the original filename.
	Name string `json:"name,omitempty"`
}
