//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package workflow

// Payload keys written and read by the built-in components.
const (
	// KeyQuery is the user query threaded through the run.
	KeyQuery = "query"
	// KeyContext is the retrieved document context joined into one string.
	KeyContext = "context"
	// KeyDocuments holds the matched chunk texts in result order.
	KeyDocuments = "documents"
	// KeyDistances holds the match distances aligned with KeyDocuments.
	KeyDistances = "distances"
	// KeyResponse is the generated answer.
	KeyResponse = "response"
	// KeyOutput is the formatted final output.
	KeyOutput = "output"
	// KeyContextUsed reports whether document context reached the prompt.
	KeyContextUsed = "context_used"
	// KeyWebSearchUsed reports whether web search was enabled for the node.
	KeyWebSearchUsed = "web_search_used"
	// KeyComponentType is the canonical kind of the producing component.
	KeyComponentType = "component_type"
	// KeyNodeID is the id of the node that produced the payload.
	KeyNodeID = "node_id"
)

// Config keys read from node configuration.
const (
	CfgKeyCollectionName = "collection_name"
	CfgKeyTopK           = "top_k"
	CfgKeyModel          = "model"
	CfgKeyTemperature    = "temperature"
	CfgKeyMaxTokens      = "max_tokens"
	CfgKeyCustomPrompt   = "custom_prompt"
	CfgKeyUseWebSearch   = "use_web_search"
	CfgKeyOutputFormat   = "output_format"
)
