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
	"fmt"

	"trpc.group/trpc-go/trpc-flow-go/log"
)

// Output formats accepted by the output component.
const (
	outputFormatText = "text"
	outputFormatJSON = "json"
)

// output extracts the final response from the payload and formats it for
// display.
type output struct {
	nodeID string
	format string
}

var _ Component = (*output)(nil)

func newOutput(nodeID string, config map[string]any) *output {
	return &output{
		nodeID: nodeID,
		format: configString(config, CfgKeyOutputFormat, outputFormatText),
	}
}

// Kind implements Component.
func (c *output) Kind() NodeKind {
	return KindOutput
}

// Execute prefers the response key, falling back to the query and finally
// to a rendering of the whole payload. It never fails.
func (c *output) Execute(_ context.Context, payload Payload) (Payload, error) {
	log.Infof("Output component processing data")

	response, ok := payload[KeyResponse].(string)
	if !ok {
		if query, qok := payload[KeyQuery].(string); qok && query != "" {
			response = query
		} else {
			response = fmt.Sprintf("%v", payload)
		}
	}

	var formatted any = response
	if c.format == outputFormatJSON {
		formatted = map[string]any{KeyResponse: response}
	}
	log.Infof("Output component generated: %d characters", len(fmt.Sprintf("%v", formatted)))

	return Payload{
		KeyOutput:        formatted,
		KeyResponse:      response,
		KeyComponentType: string(KindOutput),
		KeyNodeID:        c.nodeID,
	}, nil
}
