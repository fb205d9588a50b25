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

	"trpc.group/trpc-go/trpc-flow-go/log"
)

// queryIntake normalizes the incoming payload into the query shape
// expected by downstream components.
type queryIntake struct {
	nodeID string
}

var _ Component = (*queryIntake)(nil)

func newQueryIntake(nodeID string) *queryIntake {
	return &queryIntake{nodeID: nodeID}
}

// Kind implements Component.
func (c *queryIntake) Kind() NodeKind {
	return KindUserQuery
}

// Execute extracts the query string from the payload, defaulting to empty
// when missing. It never fails.
func (c *queryIntake) Execute(_ context.Context, payload Payload) (Payload, error) {
	query, _ := payload[KeyQuery].(string)
	log.Infof("User Query component received: %.100s...", query)
	return Payload{
		KeyQuery:         query,
		KeyComponentType: string(KindUserQuery),
		KeyNodeID:        c.nodeID,
	}, nil
}
