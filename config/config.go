//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads server settings from the environment.
//
// Load reads a .env file when one is present in the working directory and
// then resolves every setting from environment variables, falling back to
// defaults that let a bare binary start without any configuration.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"trpc.group/trpc-go/trpc-flow-go/log"
)

// Environment variables understood by Load.
const (
	envAddr        = "FLOW_ADDR"
	envSQLitePath  = "FLOW_SQLITE_PATH"
	envLLMProvider = "FLOW_LLM_PROVIDER"
	envCORSOrigins = "FLOW_CORS_ORIGINS"
	envLogLevel    = "FLOW_LOG_LEVEL"

	envOpenAIAPIKey  = "OPENAI_API_KEY"
	envOpenAIBaseURL = "OPENAI_BASE_URL"
	envGoogleAPIKey  = "GOOGLE_API_KEY"
	envSerpAPIKey    = "SERPAPI_API_KEY"
)

// Defaults applied when the environment leaves a setting unset.
const (
	defaultAddr        = ":8080"
	defaultSQLitePath  = "./data/flow.db"
	defaultLLMProvider = "openai"
	defaultCORSOrigins = "*"
	defaultLogLevel    = log.LevelInfo
)

// Config holds the resolved settings of the server binary.
type Config struct {
	// Addr is the listen address of the REST API.
	Addr string
	// SQLitePath is the path of the SQLite database file.
	SQLitePath string
	// LLMProvider selects the chat model provider, "openai" or "gemini".
	LLMProvider string
	// CORSOrigins are the allowed CORS origins.
	CORSOrigins []string
	// LogLevel is the minimum level emitted by the logger.
	LogLevel string

	// OpenAIAPIKey authenticates the OpenAI chat model and embedder.
	OpenAIAPIKey string
	// OpenAIBaseURL overrides the OpenAI endpoint, for compatible gateways.
	OpenAIBaseURL string
	// GoogleAPIKey authenticates the Gemini chat model.
	GoogleAPIKey string
	// SerpAPIKey authenticates SerpAPI web search.
	SerpAPIKey string
}

// Load resolves the configuration from the environment. Values from a .env
// file fill in variables that are not already set, so the real environment
// always wins.
func Load() *Config {
	// A missing .env file is fine; the environment alone is enough.
	if err := godotenv.Load(); err == nil {
		log.Debugf("Loaded settings from .env")
	}
	return &Config{
		Addr:          getEnv(envAddr, defaultAddr),
		SQLitePath:    getEnv(envSQLitePath, defaultSQLitePath),
		LLMProvider:   getEnv(envLLMProvider, defaultLLMProvider),
		CORSOrigins:   splitOrigins(getEnv(envCORSOrigins, defaultCORSOrigins)),
		LogLevel:      getEnv(envLogLevel, defaultLogLevel),
		OpenAIAPIKey:  os.Getenv(envOpenAIAPIKey),
		OpenAIBaseURL: os.Getenv(envOpenAIBaseURL),
		GoogleAPIKey:  os.Getenv(envGoogleAPIKey),
		SerpAPIKey:    os.Getenv(envSerpAPIKey),
	}
}

// getEnv returns the value of the variable, or the default when it is unset
// or empty.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitOrigins turns a comma-separated origin list into a slice, dropping
// empty entries.
func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
