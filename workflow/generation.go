//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-flow-go/log"
	"trpc.group/trpc-go/trpc-flow-go/model"
	"trpc.group/trpc-go/trpc-flow-go/websearch"
)

// Generation defaults applied when the node config leaves them unset.
const (
	defaultModelName   = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000

	// systemInstruction primes the model for every generation request.
	systemInstruction = "You are a helpful AI assistant."

	// webSearchLimit caps how many organic results reach the prompt.
	webSearchLimit = 5
)

// generation builds a prompt from the query and any retrieved context and
// calls the configured chat model.
type generation struct {
	nodeID       string
	model        string
	temperature  float64
	maxTokens    int
	customPrompt string
	useWebSearch bool
	chatModel    model.Model
	searchClient websearch.Client
}

var _ Component = (*generation)(nil)

func newGeneration(nodeID string, config map[string]any, chatModel model.Model, searchClient websearch.Client) *generation {
	return &generation{
		nodeID:       nodeID,
		model:        configString(config, CfgKeyModel, defaultModelName),
		temperature:  configFloat(config, CfgKeyTemperature, defaultTemperature),
		maxTokens:    configInt(config, CfgKeyMaxTokens, defaultMaxTokens),
		customPrompt: configString(config, CfgKeyCustomPrompt, ""),
		useWebSearch: configBool(config, CfgKeyUseWebSearch, false),
		chatModel:    chatModel,
		searchClient: searchClient,
	}
}

// Kind implements Component.
func (c *generation) Kind() NodeKind {
	return KindLLMEngine
}

// Execute generates a response for the payload query. Model errors fail
// the node; web search failures degrade to an empty web context so
// generation can proceed without it.
func (c *generation) Execute(ctx context.Context, payload Payload) (Payload, error) {
	query, _ := payload[KeyQuery].(string)
	docContext, _ := payload[KeyContext].(string)

	if query == "" {
		log.Warnf("No query provided to LLM Engine")
		return Payload{KeyResponse: "No query provided", KeyQuery: query}, nil
	}
	log.Infof("LLM Engine processing query: %.100s...", query)

	if c.chatModel == nil {
		return nil, errors.New("model not configured")
	}

	webContext := ""
	if c.useWebSearch {
		webContext = c.searchWeb(ctx, query)
	}
	prompt := c.buildPrompt(query, docContext, webContext)

	rsp, err := c.chatModel.GenerateContent(ctx, &model.Request{
		Model: c.model,
		Messages: []model.Message{
			model.NewSystemMessage(systemInstruction),
			model.NewUserMessage(prompt),
		},
		GenerationConfig: model.GenerationConfig{
			Temperature: model.Float64Ptr(c.temperature),
			MaxTokens:   model.IntPtr(c.maxTokens),
		},
	})
	if err != nil {
		log.Errorf("Error generating LLM response: %v", err)
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	generated := rsp.Content()
	log.Infof("LLM generated response: %d characters", len(generated))

	return Payload{
		KeyResponse:      generated,
		KeyQuery:         query,
		KeyContextUsed:   docContext != "",
		KeyWebSearchUsed: c.useWebSearch,
		KeyComponentType: string(KindLLMEngine),
		KeyNodeID:        c.nodeID,
	}, nil
}

// buildPrompt assembles the user prompt from the query and any document
// or web-search context. A custom template substitutes its placeholders
// verbatim; otherwise the default template is assembled block by block.
func (c *generation) buildPrompt(query, docContext, webContext string) string {
	if c.customPrompt != "" {
		prompt := c.customPrompt
		prompt = strings.ReplaceAll(prompt, "{query}", query)
		prompt = strings.ReplaceAll(prompt, "{context}", docContext)
		prompt = strings.ReplaceAll(prompt, "{User Query}", query)
		prompt = strings.ReplaceAll(prompt, "{CONTEXT}", docContext)
		return prompt
	}

	var parts []string
	if docContext != "" {
		parts = append(parts, fmt.Sprintf("Context from documents:\n%s\n", docContext))
	}
	if webContext != "" {
		parts = append(parts, fmt.Sprintf("Web search results:\n%s\n", webContext))
	}
	parts = append(parts, fmt.Sprintf("User query: %s\n", query))
	parts = append(parts, "Please provide a helpful response based on the above information.")
	return strings.Join(parts, "\n")
}

// searchWeb fetches and formats web results for the prompt. Failures are
// logged and yield an empty context.
func (c *generation) searchWeb(ctx context.Context, query string) string {
	if c.searchClient == nil {
		log.Warnf("Web search client not configured, skipping web search")
		return ""
	}
	results, err := c.searchClient.Search(ctx, query, webSearchLimit)
	if err != nil {
		log.Errorf("Error performing web search: %v", err)
		return ""
	}
	log.Infof("Web search returned %d results", len(results))
	return websearch.Format(results)
}
