//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package workflow

import "errors"

// Structural validation errors. Node- and edge-specific failures are
// reported as wrapped errors carrying the offending id or type.
var (
	// ErrEmptyWorkflow is returned when a workflow has no nodes.
	ErrEmptyWorkflow = errors.New("workflow must have at least one component")

	// ErrNotConnected is returned when a multi-node workflow has no edges.
	ErrNotConnected = errors.New("workflow components must be connected")

	// ErrCycleDetected is returned when the workflow graph contains a cycle.
	ErrCycleDetected = errors.New("workflow contains a cycle")

	// ErrMissingEndpoints is returned when a workflow lacks an input or an
	// output component.
	ErrMissingEndpoints = errors.New("workflow must have input and output components")
)
