//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package provider provides a unified interface for constructing model.Model instances from different providers.
package provider

import (
	"context"
	"fmt"
	"sync"

	"trpc.group/trpc-go/trpc-flow-go/model"
	"trpc.group/trpc-go/trpc-flow-go/model/gemini"
	"trpc.group/trpc-go/trpc-flow-go/model/openai"
)

func init() {
	Register("openai", openaiProvider)
	Register("gemini", geminiProvider)
}

// Provider builds a model.Model instance.
type Provider func(opts *Options) (model.Model, error)

var (
	providersMu sync.RWMutex                // providersMu guards providers access.
	providers   = make(map[string]Provider) // providers stores provider name to provider mappings.
)

// Register registers a provider by name.
func Register(name string, provider Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = provider
}

// Get returns the provider by name or nil if not found.
func Get(name string) (Provider, bool) {
	providersMu.RLock()
	defer providersMu.RUnlock()
	provider, ok := providers[name]
	return provider, ok
}

// Model constructs a model.Model with the given provider name, model name and options.
func Model(providerName, modelName string, opt ...Option) (model.Model, error) {
	opts := &Options{
		ProviderName: providerName,
		ModelName:    modelName,
	}
	for _, o := range opt {
		o(opts)
	}
	provider, ok := Get(providerName)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
	return provider(opts)
}

// openaiProvider builds an OpenAI-compatible model instance using the resolved options.
func openaiProvider(opts *Options) (model.Model, error) {
	var res []openai.Option
	if opts.APIKey != "" {
		res = append(res, openai.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		res = append(res, openai.WithBaseURL(opts.BaseURL))
	}
	res = append(res, opts.OpenAIOption...)
	return openai.New(opts.ModelName, res...), nil
}

// geminiProvider builds a Gemini-compatible model instance using the resolved options.
func geminiProvider(opts *Options) (model.Model, error) {
	var res []gemini.Option
	if opts.APIKey != "" {
		res = append(res, gemini.WithAPIKey(opts.APIKey))
	}
	res = append(res, opts.GeminiOption...)
	return gemini.New(context.Background(), opts.ModelName, res...)
}
