//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package runner executes stored workflows within chat sessions.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trpc.group/trpc-go/trpc-flow-go/log"
	"trpc.group/trpc-go/trpc-flow-go/model"
	"trpc.group/trpc-go/trpc-flow-go/session"
	"trpc.group/trpc-go/trpc-flow-go/session/inmemory"
	"trpc.group/trpc-go/trpc-flow-go/storage"
	"trpc.group/trpc-go/trpc-flow-go/workflow"
)

// ErrWorkflowNotValid is returned when the requested workflow has not
// passed validation. Invalid workflows are stored but never executed.
var ErrWorkflowNotValid = errors.New("workflow is not valid")

// noResponseFallback stands in for the assistant reply when a run
// completes without producing any output.
const noResponseFallback = "No response generated"

// Option is a function that configures a Runner.
type Option func(*Options)

// Options is the options for the Runner.
type Options struct {
	sessionService session.Service
}

// WithSessionService sets the session service to use.
// When not set, the runner creates an in-memory service and owns it.
func WithSessionService(service session.Service) Option {
	return func(opts *Options) {
		opts.sessionService = service
	}
}

// ChatResult is the outcome of one chat turn: the session it ran in and
// the two messages the turn appended.
type ChatResult struct {
	SessionID        string           `json:"session_id"`
	UserMessage      *session.Message `json:"user_message"`
	AssistantMessage *session.Message `json:"assistant_message"`
}

// Runner is the interface for running stored workflows in chat sessions.
type Runner interface {
	// Run executes the workflow against the query. An empty sessionID
	// starts a new session; otherwise the turn continues the existing one.
	// The user message is recorded before execution, so a failed run still
	// leaves the question in the transcript.
	Run(ctx context.Context, workflowID, sessionID, query string) (*ChatResult, error)

	// Close closes the runner and releases owned resources.
	// It's safe to call Close multiple times.
	// Only resources created by the runner (not provided by user) will be closed.
	Close() error
}

// runner runs stored workflows.
type runner struct {
	workflows storage.WorkflowStore
	sessions  session.Service
	executor  *workflow.Executor

	// Resource management fields.
	ownedSessionService bool      // Indicates if sessions was created by this runner.
	closeOnce           sync.Once // Ensures Close is called only once.
}

// newOptions creates a new Options.
func newOptions(opt ...Option) Options {
	opts := Options{}
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// New creates a Runner that executes workflows from the store.
func New(workflows storage.WorkflowStore, executor *workflow.Executor, opts ...Option) Runner {
	options := newOptions(opts...)
	// Track if we created the session service.
	var ownedSessionService bool
	if options.sessionService == nil {
		options.sessionService = inmemory.New()
		ownedSessionService = true
	}
	return &runner{
		workflows:           workflows,
		sessions:            options.sessionService,
		executor:            executor,
		ownedSessionService: ownedSessionService,
	}
}

// Run implements Runner.
func (r *runner) Run(ctx context.Context, workflowID, sessionID, query string) (*ChatResult, error) {
	log.Infof("Executing chat for workflow: %s", workflowID)

	stored, err := r.workflows.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if !stored.IsValid {
		return nil, ErrWorkflowNotValid
	}

	sess, err := r.getOrCreateSession(ctx, workflowID, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg, err := r.sessions.AppendMessage(ctx, sess.ID, model.RoleUser, query)
	if err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	def, err := stored.Definition()
	if err != nil {
		return nil, err
	}
	rst := r.executor.Run(ctx, def, query)
	if !rst.Success {
		if rst.Error == "" {
			return nil, errors.New("unknown error during execution")
		}
		return nil, errors.New(rst.Error)
	}

	content := rst.Output
	if content == "" {
		content = noResponseFallback
	}
	assistantMsg, err := r.sessions.AppendMessage(ctx, sess.ID, model.RoleAssistant, content)
	if err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	log.Infof("Chat execution completed for session: %s", sess.ID)
	return &ChatResult{
		SessionID:        sess.ID,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// getOrCreateSession resolves the session for this turn. A missing
// sessionID starts a fresh session bound to the workflow.
func (r *runner) getOrCreateSession(ctx context.Context, workflowID, sessionID string) (*session.Session, error) {
	if sessionID != "" {
		return r.sessions.GetSession(ctx, sessionID)
	}
	return r.sessions.CreateSession(ctx, workflowID)
}

// Close closes the runner and cleans up owned resources.
// It's safe to call Close multiple times.
// Only resources created by this runner will be closed.
func (r *runner) Close() error {
	var closeErr error
	r.closeOnce.Do(func() {
		// Only close resources that we own (created by this runner).
		if r.ownedSessionService && r.sessions != nil {
			if err := r.sessions.Close(); err != nil {
				closeErr = err
				log.Errorf("close session service failed: %v", err)
			}
		}
	})
	return closeErr
}
