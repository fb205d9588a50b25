//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package openai provides OpenAI-compatible chat model implementations.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel/attribute"

	itelemetry "trpc.group/trpc-go/trpc-flow-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flow-go/model"
)

// Verify that Model implements the model.Model interface.
var _ model.Model = (*Model)(nil)

// DefaultModel is the default OpenAI chat model.
const DefaultModel = "gpt-4o-mini"

// Model implements the model.Model interface for the OpenAI chat API.
// It also works with OpenAI-compatible APIs via WithBaseURL.
type Model struct {
	client         openai.Client
	name           string
	apiKey         string
	baseURL        string
	requestOptions []option.RequestOption
}

// Option represents a functional option for configuring the Model.
type Option func(*Model)

// WithAPIKey sets the OpenAI API key.
// If not provided, will use OPENAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(m *Model) {
		m.apiKey = apiKey
	}
}

// WithBaseURL sets the base URL for OpenAI API.
// Optional, for OpenAI-compatible APIs.
func WithBaseURL(baseURL string) Option {
	return func(m *Model) {
		m.baseURL = baseURL
	}
}

// WithRequestOptions sets additional options for the OpenAI client requests.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(m *Model) {
		m.requestOptions = append(m.requestOptions, opts...)
	}
}

// New creates a new OpenAI chat model with the given options.
// When name is empty, DefaultModel is used.
func New(name string, opts ...Option) *Model {
	if name == "" {
		name = DefaultModel
	}
	m := &Model{name: name}
	for _, opt := range opts {
		opt(m)
	}

	// Build client options.
	var clientOpts []option.RequestOption
	if m.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(m.apiKey))
	}
	if m.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(m.baseURL))
	}

	m.client = openai.NewClient(clientOpts...)

	return m
}

// Info implements the model.Model interface.
func (m *Model) Info() model.Info {
	return model.Info{
		Name: m.name,
	}
}

// GenerateContent implements the model.Model interface.
func (m *Model) GenerateContent(ctx context.Context, request *model.Request) (rsp *model.Response, err error) {
	if request == nil {
		return nil, errors.New("request cannot be nil")
	}

	name := m.name
	if request.Model != "" {
		name = request.Model
	}

	ctx, span := itelemetry.Tracer.Start(ctx,
		fmt.Sprintf("%s %s", itelemetry.OperationGenerateModel, name))
	defer func() {
		span.SetAttributes(attribute.String(itelemetry.KeyModelName, name))
		if err != nil {
			itelemetry.TraceError(span, "chat_error", err.Error())
		}
		span.End()
	}()

	chatRequest := buildChatRequest(name, request)

	completion, err := m.client.Chat.Completions.New(ctx, chatRequest, m.requestOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	return convertResponse(completion), nil
}

// buildChatRequest converts our Request to OpenAI's parameter format.
func buildChatRequest(name string, request *model.Request) openai.ChatCompletionNewParams {
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(name),
		Messages: convertMessages(request.Messages),
	}

	// MaxTokens is deprecated and not compatible with o-series models.
	// Use MaxCompletionTokens instead.
	if request.MaxTokens != nil {
		chatRequest.MaxCompletionTokens = openai.Int(int64(*request.MaxTokens))
	}
	if request.Temperature != nil {
		chatRequest.Temperature = openai.Float(*request.Temperature)
	}
	if request.TopP != nil {
		chatRequest.TopP = openai.Float(*request.TopP)
	}
	if len(request.Stop) > 0 {
		// Use the first stop string for simplicity.
		chatRequest.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfString: openai.String(request.Stop[0]),
		}
	}

	return chatRequest
}

// convertMessages converts our Message format to OpenAI's format.
func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.SystemMessage(msg.Content)
		case model.RoleAssistant:
			result[i] = openai.AssistantMessage(msg.Content)
		default: // Default to user message if role is unknown.
			result[i] = openai.UserMessage(msg.Content)
		}
	}
	return result
}

// convertResponse converts an OpenAI chat completion to our Response format.
func convertResponse(completion *openai.ChatCompletion) *model.Response {
	response := &model.Response{
		ID:        completion.ID,
		Model:     completion.Model,
		Created:   completion.Created,
		Timestamp: time.Now(),
	}

	if len(completion.Choices) > 0 {
		response.Choices = make([]model.Choice, len(completion.Choices))
		for i, choice := range completion.Choices {
			response.Choices[i] = model.Choice{
				Index: int(choice.Index),
				Message: model.Message{
					Role:    model.RoleAssistant,
					Content: choice.Message.Content,
				},
			}
			// FinishReason is a plain string.
			if choice.FinishReason != "" {
				finishReason := choice.FinishReason
				response.Choices[i].FinishReason = &finishReason
			}
		}
	}

	if completion.Usage.PromptTokens > 0 || completion.Usage.CompletionTokens > 0 {
		response.Usage = &model.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		}
	}

	return response
}
