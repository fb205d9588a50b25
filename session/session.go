//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package session provides chat session tracking for workflow runs.
//
// A session groups the messages exchanged with one workflow so a
// conversation can continue across requests. Implementations live in the
// inmemory and sqlite subpackages.
package session

import (
	"context"
	"errors"
	"time"

	"trpc.group/trpc-go/trpc-flow-go/model"
)

var (
	// ErrSessionNotFound is returned when the requested session does not exist.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrSessionIDRequired is the error for session id required.
	ErrSessionIDRequired = errors.New("sessionID is required")
	// ErrWorkflowIDRequired is the error for workflow id required.
	ErrWorkflowIDRequired = errors.New("workflowID is required")
)

// Session is one conversation bound to a workflow.
type Session struct {
	ID         string    `json:"id"`          // ID is the session id.
	WorkflowID string    `json:"workflow_id"` // WorkflowID is the owning workflow.
	CreatedAt  time.Time `json:"created_at"`  // CreatedAt is the creation time.
}

// Message is a single chat message within a session.
type Message struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Role      model.Role `json:"role"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

// Service is the interface that all session services must implement.
type Service interface {
	// CreateSession creates a new session for the given workflow. The
	// session id is generated by the service.
	CreateSession(ctx context.Context, workflowID string) (*Session, error)

	// GetSession gets a session by id. It returns ErrSessionNotFound when
	// the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// ListSessionsByWorkflow lists the sessions of a workflow, newest first.
	ListSessionsByWorkflow(ctx context.Context, workflowID string) ([]*Session, error)

	// DeleteSession deletes a session together with its messages.
	DeleteSession(ctx context.Context, sessionID string) error

	// AppendMessage appends a message to a session and returns the stored
	// message with its generated id and timestamp.
	AppendMessage(ctx context.Context, sessionID string, role model.Role, content string) (*Message, error)

	// ListMessages lists the messages of a session in chronological order.
	ListMessages(ctx context.Context, sessionID string) ([]*Message, error)

	// Close closes the service.
	Close() error
}
