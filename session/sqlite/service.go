//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package sqlite provides a SQLite-backed session service implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-flow-go/model"
	"trpc.group/trpc-go/trpc-flow-go/session"
)

const (
	sqliteCreateSessions = "CREATE TABLE IF NOT EXISTS chat_sessions (" +
		"id TEXT PRIMARY KEY, " +
		"workflow_id TEXT NOT NULL, " +
		"created_at INTEGER NOT NULL" +
		")"

	sqliteCreateMessages = "CREATE TABLE IF NOT EXISTS chat_messages (" +
		"id TEXT PRIMARY KEY, " +
		"session_id TEXT NOT NULL, " +
		"role TEXT NOT NULL, " +
		"content TEXT NOT NULL, " +
		"created_at INTEGER NOT NULL" +
		")"

	sqliteCreateSessionsIdx = "CREATE INDEX IF NOT EXISTS idx_chat_sessions_workflow " +
		"ON chat_sessions (workflow_id, created_at)"

	sqliteCreateMessagesIdx = "CREATE INDEX IF NOT EXISTS idx_chat_messages_session " +
		"ON chat_messages (session_id, created_at)"

	sqliteInsertSession = "INSERT INTO chat_sessions (id, workflow_id, created_at) VALUES (?, ?, ?)"

	sqliteSelectSession = "SELECT id, workflow_id, created_at FROM chat_sessions WHERE id = ? LIMIT 1"

	sqliteSelectSessionsByFlow = "SELECT id, workflow_id, created_at FROM chat_sessions " +
		"WHERE workflow_id = ? ORDER BY created_at DESC, rowid DESC"

	sqliteDeleteSession = "DELETE FROM chat_sessions WHERE id = ?"

	sqliteDeleteMessages = "DELETE FROM chat_messages WHERE session_id = ?"

	sqliteInsertMessage = "INSERT INTO chat_messages (id, session_id, role, content, created_at) " +
		"VALUES (?, ?, ?, ?, ?)"

	sqliteSelectMessages = "SELECT id, session_id, role, content, created_at FROM chat_messages " +
		"WHERE session_id = ? ORDER BY created_at ASC, rowid ASC"
)

var _ session.Service = (*Service)(nil)

// Service is a SQLite-backed implementation of session.Service.
// It expects an initialized *sql.DB and will create the required schema.
type Service struct {
	db *sql.DB
}

// New creates a new service using the provided DB.
// The DB must use a SQLite driver. The constructor creates tables if needed.
func New(db *sql.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	for _, stmt := range []string{
		sqliteCreateSessions,
		sqliteCreateMessages,
		sqliteCreateSessionsIdx,
		sqliteCreateMessagesIdx,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("create session schema: %w", err)
		}
	}
	return &Service{db: db}, nil
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
	if _, err := s.db.ExecContext(ctx, sqliteInsertSession,
		sess.ID, sess.WorkflowID, sess.CreatedAt.UnixNano()); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetSession gets a session by id.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}
	row := s.db.QueryRowContext(ctx, sqliteSelectSession, sessionID)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	return sess, nil
}

// ListSessionsByWorkflow lists the sessions of a workflow, newest first.
func (s *Service) ListSessionsByWorkflow(ctx context.Context, workflowID string) ([]*session.Session, error) {
	if workflowID == "" {
		return nil, session.ErrWorkflowIDRequired
	}
	rows, err := s.db.QueryContext(ctx, sqliteSelectSessionsByFlow, workflowID)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*session.Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession deletes a session together with its messages.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return session.ErrSessionIDRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteDeleteMessages, sessionID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	res, err := tx.ExecContext(ctx, sqliteDeleteSession, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows affected: %w", err)
	}
	if affected == 0 {
		return session.ErrSessionNotFound
	}
	return tx.Commit()
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
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	msg := &session.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx, sqliteInsertMessage,
		msg.ID, msg.SessionID, string(msg.Role), msg.Content, msg.CreatedAt.UnixNano()); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// ListMessages lists the messages of a session in chronological order.
func (s *Service) ListMessages(ctx context.Context, sessionID string) ([]*session.Message, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqliteSelectMessages, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*session.Message, 0)
	for rows.Next() {
		var (
			msg  session.Message
			role string
			ts   int64
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = model.Role(role)
		msg.CreatedAt = time.Unix(0, ts).UTC()
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// Close closes the service. The database handle is owned by the caller and
// stays open.
func (s *Service) Close() error {
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanSession.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var (
		sess session.Session
		ts   int64
	)
	if err := row.Scan(&sess.ID, &sess.WorkflowID, &ts); err != nil {
		return nil, err
	}
	sess.CreatedAt = time.Unix(0, ts).UTC()
	return &sess, nil
}
