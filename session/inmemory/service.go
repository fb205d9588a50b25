//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory session service implementation.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-flow-go/model"
	"trpc.group/trpc-go/trpc-flow-go/session"
)

var _ session.Service = (*Service)(nil)

// record bundles a session with its message history.
type record struct {
	sess     *session.Session
	messages []*session.Message
}

// Service provides an in-memory implementation of session.Service.
// It is safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*record
	// byWorkflow indexes session ids per workflow in creation order, so
	// listings stay deterministic even when timestamps collide.
	byWorkflow map[string][]string
}

// New creates a new in-memory session service.
func New() *Service {
	return &Service{
		sessions:   make(map[string]*record),
		byWorkflow: make(map[string][]string),
	}
}

// CreateSession creates a new session for the given workflow.
func (s *Service) CreateSession(ctx context.Context, workflowID string) (*session.Session, error) {
	if workflowID == "" {
		return nil, session.ErrWorkflowIDRequired
	}
	sess := &session.Session{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = &record{sess: sess}
	s.byWorkflow[workflowID] = append(s.byWorkflow[workflowID], sess.ID)
	return cloneSession(sess), nil
}

// GetSession gets a session by id.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return cloneSession(rec.sess), nil
}

// ListSessionsByWorkflow lists the sessions of a workflow, newest first.
func (s *Service) ListSessionsByWorkflow(ctx context.Context, workflowID string) ([]*session.Session, error) {
	if workflowID == "" {
		return nil, session.ErrWorkflowIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byWorkflow[workflowID]
	sessions := make([]*session.Session, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if rec, ok := s.sessions[ids[i]]; ok {
			sessions = append(sessions, cloneSession(rec.sess))
		}
	}
	return sessions, nil
}

// DeleteSession deletes a session together with its messages.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return session.ErrSessionIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return session.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)

	workflowID := rec.sess.WorkflowID
	ids := s.byWorkflow[workflowID]
	for i, id := range ids {
		if id == sessionID {
			s.byWorkflow[workflowID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byWorkflow[workflowID]) == 0 {
		delete(s.byWorkflow, workflowID)
	}
	return nil
}

// AppendMessage appends a message to a session.
func (s *Service) AppendMessage(
	ctx context.Context,
	sessionID string,
	role model.Role,
	content string,
) (*session.Message, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	msg := &session.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	rec.messages = append(rec.messages, msg)
	return cloneMessage(msg), nil
}

// ListMessages lists the messages of a session in chronological order.
func (s *Service) ListMessages(ctx context.Context, sessionID string) ([]*session.Message, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	messages := make([]*session.Message, 0, len(rec.messages))
	for _, msg := range rec.messages {
		messages = append(messages, cloneMessage(msg))
	}
	return messages, nil
}

// Close closes the service.
func (s *Service) Close() error {
	return nil
}

func cloneSession(sess *session.Session) *session.Session {
	copied := *sess
	return &copied
}

func cloneMessage(msg *session.Message) *session.Message {
	copied := *msg
	return &copied
}
