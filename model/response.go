//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package model

import "time"

// Choice represents a single completion choice.
type Choice struct {
	// Index is the index of the choice.
	Index int `json:"index"`

	// Message is the message content.
	Message Message `json:"message"`

	// FinishReason is the reason the choice was finished,
	// e.g. "stop", "length", "content_filter".
	FinishReason *string `json:"finish_reason,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens in the response.
	TotalTokens int `json:"total_tokens"`
}

// Response is a complete chat response from a model backend.
type Response struct {
	// ID is the provider-assigned response identifier.
	ID string `json:"id,omitempty"`

	// Model is the model that produced the response.
	Model string `json:"model,omitempty"`

	// Created is the creation time reported by the provider, in epoch seconds.
	Created int64 `json:"created,omitempty"`

	// Choices is the list of completion choices.
	Choices []Choice `json:"choices"`

	// Usage is the token usage of the request, when reported.
	Usage *Usage `json:"usage,omitempty"`

	// Timestamp is the local time the response was received.
	Timestamp time.Time `json:"timestamp"`
}

// Content returns the content of the first choice, or the empty string
// when the response has no choices.
func (r *Response) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
