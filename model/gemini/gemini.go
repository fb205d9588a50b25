//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	itelemetry "trpc.group/trpc-go/trpc-flow-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flow-go/model"
)

// Verify that Model implements the model.Model interface.
var _ model.Model = (*Model)(nil)

// DefaultModel is the default Gemini chat model.
const DefaultModel = "gemini-2.0-flash"

// Model implements the model.Model interface for the Gemini API.
type Model struct {
	client Client
	name   string
}

// New creates a new Gemini model with the given options.
// When name is empty, DefaultModel is used.
func New(ctx context.Context, name string, opts ...Option) (*Model, error) {
	if name == "" {
		name = DefaultModel
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	client, err := genai.NewClient(ctx, o.geminiClientConfig)
	if err != nil {
		return nil, err
	}
	return &Model{
		client: &clientWrapper{client: client},
		name:   name,
	}, nil
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

	contents := convertMessages(request.Messages)
	config := buildChatConfig(request)

	completion, err := m.client.Models().GenerateContent(ctx, name, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return convertResponse(completion), nil
}

// buildChatConfig converts our Request to Gemini request config.
func buildChatConfig(request *model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if request.MaxTokens != nil {
		config.MaxOutputTokens = int32(*request.MaxTokens)
	}
	if request.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*request.Temperature))
	}
	if request.TopP != nil {
		config.TopP = genai.Ptr(float32(*request.TopP))
	}
	if len(request.Stop) > 0 {
		config.StopSequences = request.Stop
	}
	return config
}

// convertMessages converts our Message format to Gemini's format.
// Gemini has no dedicated system role, so system messages are carried as
// user content.
func convertMessages(messages []model.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		role := genai.RoleUser
		if msg.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		result = append(result, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}
	return result
}

// convertResponse converts a Gemini response to our Response format.
func convertResponse(completion *genai.GenerateContentResponse) *model.Response {
	response := &model.Response{
		ID:        completion.ResponseID,
		Model:     completion.ModelVersion,
		Timestamp: time.Now(),
	}
	if !completion.CreateTime.IsZero() {
		response.Created = completion.CreateTime.Unix()
	}

	message, finishReason := convertCandidates(completion.Candidates)
	response.Choices = []model.Choice{{Index: 0, Message: message}}
	if finishReason != "" {
		response.Choices[0].FinishReason = &finishReason
	}

	if usage := completion.UsageMetadata; usage != nil {
		response.Usage = &model.Usage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return response
}

// convertCandidates builds a single assistant message from Gemini candidates.
func convertCandidates(candidates []*genai.Candidate) (model.Message, string) {
	var (
		textBuilder  strings.Builder
		finishReason string
	)
	for _, candidate := range candidates {
		if candidate.FinishReason != "" {
			finishReason = string(candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				textBuilder.WriteString(part.Text)
			}
		}
	}
	return model.NewAssistantMessage(textBuilder.String()), finishReason
}
