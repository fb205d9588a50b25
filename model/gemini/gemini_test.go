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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"trpc.group/trpc-go/trpc-flow-go/model"
)

// fakeModels records the generate call and returns a canned response.
type fakeModels struct {
	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	rsp         *genai.GenerateContentResponse
	err         error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	return f.rsp, f.err
}

type fakeClient struct {
	models Models
}

func (f *fakeClient) Models() Models { return f.models }

func newFakeModel(name string, rsp *genai.GenerateContentResponse, err error) (*Model, *fakeModels) {
	models := &fakeModels{rsp: rsp, err: err}
	return &Model{client: &fakeClient{models: models}, name: name}, models
}

func TestModel_convertMessages(t *testing.T) {
	tests := []struct {
		name     string
		messages []model.Message
		want     []*genai.Content
	}{
		{
			name: "roles",
			messages: []model.Message{
				model.NewSystemMessage("be brief"),
				model.NewUserMessage("hello"),
				model.NewAssistantMessage("hi"),
			},
			want: []*genai.Content{
				genai.NewContentFromText("be brief", genai.RoleUser),
				genai.NewContentFromText("hello", genai.RoleUser),
				genai.NewContentFromText("hi", genai.RoleModel),
			},
		},
		{
			name: "empty content skipped",
			messages: []model.Message{
				model.NewUserMessage(""),
				model.NewUserMessage("hello"),
			},
			want: []*genai.Content{
				genai.NewContentFromText("hello", genai.RoleUser),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertMessages(tt.messages)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("convertMessages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildChatConfig(t *testing.T) {
	config := buildChatConfig(&model.Request{})
	assert.Nil(t, config.Temperature)
	assert.Nil(t, config.TopP)
	assert.Zero(t, config.MaxOutputTokens)

	config = buildChatConfig(&model.Request{
		GenerationConfig: model.GenerationConfig{
			Temperature: model.Float64Ptr(0.7),
			TopP:        model.Float64Ptr(0.9),
			MaxTokens:   model.IntPtr(1000),
			Stop:        []string{"END"},
		},
	})
	require.NotNil(t, config.Temperature)
	assert.Equal(t, float32(0.7), *config.Temperature)
	require.NotNil(t, config.TopP)
	assert.Equal(t, float32(0.9), *config.TopP)
	assert.Equal(t, int32(1000), config.MaxOutputTokens)
	assert.Equal(t, []string{"END"}, config.StopSequences)
}

func TestGenerateContent(t *testing.T) {
	rsp := &genai.GenerateContentResponse{
		ResponseID:   "rsp-1",
		ModelVersion: "gemini-2.0-flash",
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role:  string(genai.RoleModel),
					Parts: []*genai.Part{{Text: "Hello "}, {Text: "world"}},
				},
				FinishReason: genai.FinishReasonStop,
			},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     5,
			CandidatesTokenCount: 2,
			TotalTokenCount:      7,
		},
	}
	m, fake := newFakeModel("gemini-2.0-flash", rsp, nil)

	got, err := m.GenerateContent(context.Background(), &model.Request{
		Messages: []model.Message{model.NewUserMessage("say hello")},
		GenerationConfig: model.GenerationConfig{
			Temperature: model.Float64Ptr(0.2),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", got.Content())
	assert.Equal(t, "rsp-1", got.ID)
	require.NotNil(t, got.Usage)
	assert.Equal(t, 7, got.Usage.TotalTokens)
	require.Len(t, got.Choices, 1)
	require.NotNil(t, got.Choices[0].FinishReason)
	assert.Equal(t, string(genai.FinishReasonStop), *got.Choices[0].FinishReason)

	assert.Equal(t, "gemini-2.0-flash", fake.gotModel)
	require.Len(t, fake.gotContents, 1)
	require.NotNil(t, fake.gotConfig.Temperature)
	assert.Equal(t, float32(0.2), *fake.gotConfig.Temperature)
}

func TestGenerateContentModelOverride(t *testing.T) {
	m, fake := newFakeModel("gemini-2.0-flash", &genai.GenerateContentResponse{}, nil)

	_, err := m.GenerateContent(context.Background(), &model.Request{
		Model:    "gemini-1.5-pro",
		Messages: []model.Message{model.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", fake.gotModel)
}

func TestGenerateContentNilRequest(t *testing.T) {
	m, _ := newFakeModel("gemini-2.0-flash", nil, nil)
	_, err := m.GenerateContent(context.Background(), nil)
	require.Error(t, err)
}

func TestGenerateContentError(t *testing.T) {
	m, _ := newFakeModel("gemini-2.0-flash", nil, errors.New("backend unavailable"))

	_, err := m.GenerateContent(context.Background(), &model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate content")
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestInfo(t *testing.T) {
	m, _ := newFakeModel("gemini-2.0-flash", nil, nil)
	assert.Equal(t, "gemini-2.0-flash", m.Info().Name)
}

func TestNew(t *testing.T) {
	m, err := New(context.Background(), "", WithAPIKey("test-key"))
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, m.Info().Name)

	m2, err := New(context.Background(), "gemini-1.5-pro", WithClientConfig(&genai.ClientConfig{
		APIKey:  "test-key",
		Backend: genai.BackendGeminiAPI,
	}))
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", m2.Info().Name)
}
