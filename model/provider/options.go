//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package provider

import (
	"trpc.group/trpc-go/trpc-flow-go/model/gemini"
	"trpc.group/trpc-go/trpc-flow-go/model/openai"
)

// Option configures how a model instance should be constructed.
type Option func(*Options)

// Options contains resolved settings used when constructing provider-backed models.
type Options struct {
	ProviderName string          // ProviderName is the provider identifier passed to Model.
	ModelName    string          // ModelName is the concrete model identifier.
	APIKey       string          // APIKey holds the credential used for downstream SDK initialization.
	BaseURL      string          // BaseURL overrides the default endpoint when specified.
	OpenAIOption []openai.Option // OpenAIOption stores additional OpenAI options.
	GeminiOption []gemini.Option // GeminiOption stores additional Gemini options.
}

// WithAPIKey records the API key for the provider.
func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.APIKey = key
	}
}

// WithBaseURL records the base URL for the provider.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithOpenAIOption appends raw OpenAI options.
func WithOpenAIOption(opt ...openai.Option) Option {
	return func(o *Options) {
		o.OpenAIOption = append(o.OpenAIOption, opt...)
	}
}

// WithGeminiOption appends raw Gemini options.
func WithGeminiOption(opt ...gemini.Option) Option {
	return func(o *Options) {
		o.GeminiOption = append(o.GeminiOption, opt...)
	}
}
