//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the workflow engine over a REST API.
//
// The server fronts workflow and document storage, chat sessions, document
// ingestion and workflow execution with gorilla/mux routes. Every
// collaborator can be injected through options; anything not provided falls
// back to an in-memory implementation, so a bare New() yields a working
// server for development and tests. The handler is returned via Handler()
// and mounted by the caller, which keeps listener lifecycle out of this
// package.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-flow-go/artifact"
	artifactinmemory "trpc.group/trpc-go/trpc-flow-go/artifact/inmemory"
	"trpc.group/trpc-go/trpc-flow-go/knowledge"
	"trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore"
	vectorinmemory "trpc.group/trpc-go/trpc-flow-go/knowledge/vectorstore/inmemory"
	"trpc.group/trpc-go/trpc-flow-go/log"
	"trpc.group/trpc-go/trpc-flow-go/runner"
	"trpc.group/trpc-go/trpc-flow-go/session"
	sessioninmemory "trpc.group/trpc-go/trpc-flow-go/session/inmemory"
	"trpc.group/trpc-go/trpc-flow-go/storage"
	storageinmemory "trpc.group/trpc-go/trpc-flow-go/storage/inmemory"
	"trpc.group/trpc-go/trpc-flow-go/workflow"
)

// apiVersion is reported by the welcome endpoint.
const apiVersion = "1.0.0"

// healthProbeCollection is the collection the health endpoint asks the
// vector store about. Existence does not matter, reachability does.
const healthProbeCollection = "healthcheck"

// Server serves the REST API of the workflow engine.
type Server struct {
	router      *mux.Router
	workflows   storage.WorkflowStore
	documents   storage.DocumentStore
	sessions    session.Service
	artifacts   artifact.Service
	vectorStore vectorstore.VectorStore
	ingestion   *knowledge.Builtin
	runner      runner.Runner
	corsOrigins []string
}

// Option configures the server.
type Option func(*Server)

// WithWorkflowStore sets the workflow store.
func WithWorkflowStore(store storage.WorkflowStore) Option {
	return func(s *Server) {
		s.workflows = store
	}
}

// WithDocumentStore sets the document store.
func WithDocumentStore(store storage.DocumentStore) Option {
	return func(s *Server) {
		s.documents = store
	}
}

// WithSessionService sets the chat session service.
func WithSessionService(service session.Service) Option {
	return func(s *Server) {
		s.sessions = service
	}
}

// WithArtifactService sets the artifact service holding uploaded files.
func WithArtifactService(service artifact.Service) Option {
	return func(s *Server) {
		s.artifacts = service
	}
}

// WithVectorStore sets the vector store probed by the health endpoint and
// used by the default ingestion service.
func WithVectorStore(store vectorstore.VectorStore) Option {
	return func(s *Server) {
		s.vectorStore = store
	}
}

// WithIngestionService sets the ingestion service used for document
// uploads. The service needs an embedder configured, otherwise uploads
// fail with an error.
func WithIngestionService(service *knowledge.Builtin) Option {
	return func(s *Server) {
		s.ingestion = service
	}
}

// WithRunner sets the runner executing chat requests. The runner should
// share the server's session service so the chat endpoints see the
// messages it records.
func WithRunner(r runner.Runner) Option {
	return func(s *Server) {
		s.runner = r
	}
}

// WithCORSOrigins sets the allowed CORS origins. The default allows all.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// New creates a REST server for the workflow engine. The behaviour can be
// tweaked via functional options; collaborators left unset fall back to
// in-memory implementations.
func New(opts ...Option) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		corsOrigins: []string{"*"},
	}

	// Apply user-provided options.
	for _, opt := range opts {
		opt(s)
	}

	// Fill the gaps with in-memory implementations. Order matters: the
	// default ingestion service and runner build on the stores above.
	if s.workflows == nil {
		s.workflows = storageinmemory.NewWorkflowStore()
	}
	if s.documents == nil {
		s.documents = storageinmemory.NewDocumentStore()
	}
	if s.sessions == nil {
		s.sessions = sessioninmemory.New()
	}
	if s.artifacts == nil {
		s.artifacts = artifactinmemory.NewService()
	}
	if s.vectorStore == nil {
		s.vectorStore = vectorinmemory.New()
	}
	if s.ingestion == nil {
		s.ingestion = knowledge.New(knowledge.WithVectorStore(s.vectorStore))
	}
	if s.runner == nil {
		s.runner = runner.New(s.workflows, workflow.New(), runner.WithSessionService(s.sessions))
	}

	// Add CORS middleware for browser-based workflow editors.
	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

// registerRoutes sets up all REST endpoints.
func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Workflow APIs.
	s.router.HandleFunc("/workflows", s.handleCreateWorkflow).Methods(http.MethodPost)
	s.router.HandleFunc("/workflows", s.handleListWorkflows).Methods(http.MethodGet)
	s.router.HandleFunc("/workflows/{id}", s.handleGetWorkflow).Methods(http.MethodGet)
	s.router.HandleFunc("/workflows/{id}", s.handleUpdateWorkflow).Methods(http.MethodPut)
	s.router.HandleFunc("/workflows/{id}", s.handleDeleteWorkflow).Methods(http.MethodDelete)
	s.router.HandleFunc("/workflows/{id}/validate", s.handleValidateWorkflow).Methods(http.MethodPost)

	// Document APIs.
	s.router.HandleFunc("/documents/upload", s.handleUploadDocument).Methods(http.MethodPost)
	s.router.HandleFunc("/documents", s.handleListDocuments).Methods(http.MethodGet)
	s.router.HandleFunc("/documents/{id}", s.handleGetDocument).Methods(http.MethodGet)
	s.router.HandleFunc("/documents/{id}", s.handleDeleteDocument).Methods(http.MethodDelete)

	// Chat APIs.
	s.router.HandleFunc("/chat/execute", s.handleExecuteChat).Methods(http.MethodPost)
	s.router.HandleFunc("/chat/sessions/{id}", s.handleGetChatSession).Methods(http.MethodGet)
	s.router.HandleFunc("/chat/sessions/{id}", s.handleDeleteChatSession).Methods(http.MethodDelete)
	s.router.HandleFunc("/chat/workflows/{id}/sessions", s.handleListWorkflowSessions).Methods(http.MethodGet)
}

// workflowCreateRequest is the body of POST /workflows.
type workflowCreateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Nodes       json.RawMessage `json:"nodes"`
	Edges       json.RawMessage `json:"edges"`
}

// workflowUpdateRequest is the body of PUT /workflows/{id}. Pointer and
// raw fields distinguish absent fields from explicit values, so partial
// updates leave the rest of the record untouched.
type workflowUpdateRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Nodes       json.RawMessage `json:"nodes"`
	Edges       json.RawMessage `json:"edges"`
	IsValid     *bool           `json:"is_valid"`
}

// workflowValidateResponse is the body of POST /workflows/{id}/validate.
type workflowValidateResponse struct {
	WorkflowID string `json:"workflow_id"`
	IsValid    bool   `json:"is_valid"`
	Message    string `json:"message"`
}

// chatExecuteRequest is the body of POST /chat/execute. An empty session
// id starts a new session.
type chatExecuteRequest struct {
	WorkflowID string `json:"workflow_id"`
	Query      string `json:"query"`
	SessionID  string `json:"session_id,omitempty"`
}

// chatSessionResponse is the body of GET /chat/sessions/{id}.
type chatSessionResponse struct {
	ID         string             `json:"id"`
	WorkflowID string             `json:"workflow_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Messages   []*session.Message `json:"messages"`
}

type workflowListResponse struct {
	Workflows []*storage.Workflow `json:"workflows"`
}

type documentListResponse struct {
	Documents []*storage.Document `json:"documents"`
}

type sessionListResponse struct {
	Sessions []*session.Session `json:"sessions"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	VectorStore string `json:"vector_store"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type welcomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, welcomeResponse{
		Message: "Welcome to the trpc-flow-go API",
		Version: apiVersion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleHealth called: path=%s", r.URL.Path)
	health := healthResponse{Status: "healthy", Database: "healthy", VectorStore: "healthy"}
	if err := s.workflows.Ping(r.Context()); err != nil {
		health.Database = fmt.Sprintf("unhealthy: %v", err)
		health.Status = "unhealthy"
	}
	if _, err := s.vectorStore.CollectionExists(r.Context(), healthProbeCollection); err != nil {
		health.VectorStore = fmt.Sprintf("unhealthy: %v", err)
		health.Status = "unhealthy"
	}
	s.writeJSON(w, health)
}

func (s *Server) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleCreateWorkflow called: path=%s", r.URL.Path)
	var req workflowCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	stored := &storage.Workflow{
		Name:        req.Name,
		Description: req.Description,
	}
	if provided(req.Nodes) {
		stored.Nodes = req.Nodes
	}
	if provided(req.Edges) {
		stored.Edges = req.Edges
	}
	def, err := stored.Definition()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Definitions still missing nodes or edges are drafts: they are saved
	// unvalidated and stay flagged invalid until completed.
	if len(def.Nodes) > 0 && len(def.Edges) > 0 {
		if err := def.Validate(); err != nil {
			log.Warnf("Workflow validation failed: %v", err)
		} else {
			stored.IsValid = true
		}
	}

	created, err := s.workflows.CreateWorkflow(r.Context(), stored)
	if err != nil {
		if errors.Is(err, storage.ErrNameRequired) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Infof("Workflow created: %s", created.ID)
	s.writeJSON(w, created)
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleListWorkflows called: path=%s", r.URL.Path)
	workflows, err := s.workflows.ListWorkflows(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, workflowListResponse{Workflows: workflows})
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleGetWorkflow called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	stored, err := s.workflows.GetWorkflow(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, storage.ErrWorkflowNotFound) {
			http.Error(w, "Workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, stored)
}

func (s *Server) handleUpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleUpdateWorkflow called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	stored, err := s.workflows.GetWorkflow(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, storage.ErrWorkflowNotFound) {
			http.Error(w, "Workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req workflowUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name != nil {
		stored.Name = *req.Name
	}
	if req.Description != nil {
		stored.Description = *req.Description
	}
	if provided(req.Nodes) {
		stored.Nodes = req.Nodes
	}
	if provided(req.Edges) {
		stored.Edges = req.Edges
	}

	// Changed nodes or edges revalidate the merged definition.
	if provided(req.Nodes) || provided(req.Edges) {
		def, err := stored.Definition()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := def.Validate(); err != nil {
			stored.IsValid = false
			log.Warnf("Workflow validation failed: %v", err)
		} else {
			stored.IsValid = true
		}
	}
	// An explicit is_valid in the request wins over revalidation.
	if req.IsValid != nil {
		stored.IsValid = *req.IsValid
	}

	updated, err := s.workflows.UpdateWorkflow(r.Context(), stored)
	if err != nil {
		if errors.Is(err, storage.ErrWorkflowNotFound) {
			http.Error(w, "Workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Infof("Workflow updated: %s", updated.ID)
	s.writeJSON(w, updated)
}

func (s *Server) handleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleDeleteWorkflow called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	id := vars["id"]
	if err := s.workflows.DeleteWorkflow(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrWorkflowNotFound) {
			http.Error(w, "Workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Chat sessions of the workflow go with it.
	sessions, err := s.sessions.ListSessionsByWorkflow(r.Context(), id)
	if err != nil {
		log.Errorf("Failed to list sessions of workflow %s: %v", id, err)
	}
	for _, sess := range sessions {
		if err := s.sessions.DeleteSession(r.Context(), sess.ID); err != nil {
			log.Errorf("Failed to delete session %s: %v", sess.ID, err)
		}
	}

	log.Infof("Workflow deleted: %s", id)
	s.writeJSON(w, messageResponse{Message: "Workflow deleted successfully"})
}

func (s *Server) handleValidateWorkflow(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleValidateWorkflow called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	stored, err := s.workflows.GetWorkflow(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, storage.ErrWorkflowNotFound) {
			http.Error(w, "Workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	valid := false
	message := "Workflow is valid"
	if def, err := stored.Definition(); err != nil {
		message = err.Error()
	} else if err := def.Validate(); err != nil {
		message = err.Error()
	} else {
		valid = true
	}

	stored.IsValid = valid
	if _, err := s.workflows.UpdateWorkflow(r.Context(), stored); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, workflowValidateResponse{
		WorkflowID: stored.ID,
		IsValid:    valid,
		Message:    message,
	})
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleUploadDocument called: path=%s", r.URL.Path)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".pdf") {
		http.Error(w, "Only PDF files are supported", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// The raw bytes are kept in the artifact service under the document id,
	// so the metadata record never carries the file itself.
	id := uuid.NewString()
	art := &artifact.Artifact{Data: data, MimeType: "application/pdf", Name: header.Filename}
	if err := s.artifacts.SaveArtifact(r.Context(), id, art); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := s.documents.CreateDocument(r.Context(), &storage.Document{
		ID:       id,
		Filename: header.Filename,
		FileSize: int64(len(data)),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// The record is created before ingestion, so a failed ingestion leaves
	// an unprocessed document behind instead of losing the upload.
	collection := "doc_" + id
	result, err := s.ingestDocument(r.Context(), collection, header.Filename, data)
	if err != nil {
		log.Errorf("Error processing document %s: %v", header.Filename, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	processed, err := s.documents.MarkDocumentProcessed(r.Context(), id, result.ChunkCount, collection)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Infof("Document uploaded and processed: %s", header.Filename)
	s.writeJSON(w, processed)
}

// ingestDocument stages the uploaded bytes in a temporary file so the
// extension-keyed readers can process them, then ingests the file into the
// collection.
func (s *Server) ingestDocument(ctx context.Context, collection, filename string, data []byte) (*knowledge.IngestResult, error) {
	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	return s.ingestion.IngestFile(ctx, collection, tmp.Name(), filename)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleListDocuments called: path=%s", r.URL.Path)
	documents, err := s.documents.ListDocuments(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, documentListResponse{Documents: documents})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleGetDocument called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	doc, err := s.documents.GetDocument(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleDeleteDocument called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	doc, err := s.documents.GetDocument(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Chunks and file bytes are cleaned up best-effort; the record is the
	// source of truth and its deletion decides the response.
	if doc.CollectionName != "" {
		if err := s.ingestion.RemoveCollection(r.Context(), doc.CollectionName); err != nil {
			log.Errorf("Failed to remove collection %s: %v", doc.CollectionName, err)
		}
	}
	if err := s.artifacts.DeleteArtifact(r.Context(), doc.ID); err != nil {
		log.Errorf("Failed to delete artifact %s: %v", doc.ID, err)
	}

	if err := s.documents.DeleteDocument(r.Context(), doc.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Infof("Document deleted: %s", doc.ID)
	s.writeJSON(w, messageResponse{Message: "Document deleted successfully"})
}

func (s *Server) handleExecuteChat(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleExecuteChat called: path=%s", r.URL.Path)
	var req chatExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result, err := s.runner.Run(r.Context(), req.WorkflowID, req.SessionID, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrWorkflowNotFound):
			http.Error(w, "Workflow not found", http.StatusNotFound)
		case errors.Is(err, runner.ErrWorkflowNotValid):
			http.Error(w, "Workflow is not valid. Please validate it first.", http.StatusBadRequest)
		case errors.Is(err, session.ErrSessionNotFound):
			http.Error(w, "Chat session not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) handleGetChatSession(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleGetChatSession called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	sess, err := s.sessions.GetSession(r.Context(), vars["id"])
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			http.Error(w, "Chat session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	messages, err := s.sessions.ListMessages(r.Context(), sess.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, chatSessionResponse{
		ID:         sess.ID,
		WorkflowID: sess.WorkflowID,
		CreatedAt:  sess.CreatedAt,
		Messages:   messages,
	})
}

func (s *Server) handleDeleteChatSession(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleDeleteChatSession called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	if err := s.sessions.DeleteSession(r.Context(), vars["id"]); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			http.Error(w, "Chat session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, messageResponse{Message: "Chat session deleted successfully"})
}

func (s *Server) handleListWorkflowSessions(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleListWorkflowSessions called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	sessions, err := s.sessions.ListSessionsByWorkflow(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, sessionListResponse{Sessions: sessions})
}

// provided reports whether a raw JSON field was present and not null in
// the request body. Clients sending an explicit null mean "leave as is",
// the same as omitting the field.
func provided(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
