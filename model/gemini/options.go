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
	"google.golang.org/genai"
)

// options contains configuration options for creating a Gemini model.
type options struct {
	// geminiClientConfig for building the gemini client.
	geminiClientConfig *genai.ClientConfig
}

// Option is a function that configures a Gemini model.
type Option func(*options)

// WithAPIKey sets the API key used for the Gemini API.
// If not provided, the client falls back to the GOOGLE_API_KEY environment
// variable.
func WithAPIKey(key string) Option {
	return func(o *options) {
		if o.geminiClientConfig == nil {
			o.geminiClientConfig = &genai.ClientConfig{}
		}
		o.geminiClientConfig.APIKey = key
	}
}

// WithClientConfig sets the ClientConfig used for gemini Client initialization.
// It overrides any previously set client configuration.
func WithClientConfig(c *genai.ClientConfig) Option {
	return func(o *options) {
		o.geminiClientConfig = c
	}
}
