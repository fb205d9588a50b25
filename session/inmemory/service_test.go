//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flow-go/model"
	"trpc.group/trpc-go/trpc-flow-go/session"
)

func TestCreateAndGetSession(t *testing.T) {
	svc := New()
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "wf-1", sess.WorkflowID)
	assert.False(t, sess.CreatedAt.IsZero())

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "wf-1", got.WorkflowID)
}

func TestCreateSessionRequiresWorkflowID(t *testing.T) {
	svc := New()

	_, err := svc.CreateSession(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrWorkflowIDRequired)
}

func TestGetSessionNotFound(t *testing.T) {
	svc := New()
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = svc.GetSession(ctx, "")
	assert.ErrorIs(t, err, session.ErrSessionIDRequired)
}

func TestListSessionsByWorkflowNewestFirst(t *testing.T) {
	svc := New()
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)
	// A session of another workflow must not leak into the listing.
	_, err = svc.CreateSession(ctx, "wf-2")
	require.NoError(t, err)

	sessions, err := svc.ListSessionsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
}

func TestListSessionsByWorkflowEmpty(t *testing.T) {
	svc := New()

	sessions, err := svc.ListSessionsByWorkflow(context.Background(), "wf-none")
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.NotNil(t, sessions)
}

func TestDeleteSession(t *testing.T) {
	svc := New()
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, sess.ID, model.RoleUser, "hello")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, sess.ID))

	_, err = svc.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = svc.ListMessages(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	sessions, err := svc.ListSessionsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestDeleteSessionNotFound(t *testing.T) {
	svc := New()

	err := svc.DeleteSession(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestAppendAndListMessages(t *testing.T) {
	svc := New()
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)

	user, err := svc.AppendMessage(ctx, sess.ID, model.RoleUser, "What is Go?")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, sess.ID, user.SessionID)

	assistant, err := svc.AppendMessage(ctx, sess.ID, model.RoleAssistant, "A programming language.")
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, user.ID, messages[0].ID)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "What is Go?", messages[0].Content)
	assert.Equal(t, assistant.ID, messages[1].ID)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
}

func TestAppendMessageSessionNotFound(t *testing.T) {
	svc := New()

	_, err := svc.AppendMessage(context.Background(), "missing", model.RoleUser, "hello")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestReturnedSessionIsACopy(t *testing.T) {
	svc := New()
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)
	sess.WorkflowID = "mutated"

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "wf-1", got.WorkflowID)
}

func TestReturnedMessageIsACopy(t *testing.T) {
	svc := New()
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)
	msg, err := svc.AppendMessage(ctx, sess.ID, model.RoleUser, "hello")
	require.NoError(t, err)
	msg.Content = "mutated"

	messages, err := svc.ListMessages(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Content)
}

func TestConcurrentAppends(t *testing.T) {
	svc := New()
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "wf-1")
	require.NoError(t, err)

	const writers = 10
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.AppendMessage(ctx, sess.ID, model.RoleUser, fmt.Sprintf("msg-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	messages, err := svc.ListMessages(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, messages, writers)
}

func TestClose(t *testing.T) {
	svc := New()
	assert.NoError(t, svc.Close())
}
