//
// Tencent is pleased to support the open source community by making trpc-flow-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-flow-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flow-go/artifact"
)

func TestSaveAndLoadArtifact(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	err := svc.SaveArtifact(ctx, "doc-1", &artifact.Artifact{
		Data:     []byte("%PDF-1.7 hello"),
		MimeType: "application/pdf",
		Name:     "handbook.pdf",
	})
	require.NoError(t, err)

	got, err := svc.LoadArtifact(ctx, "doc-1")
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-1.7 hello"), got.Data)
	require.Equal(t, "application/pdf", got.MimeType)
	require.Equal(t, "handbook.pdf", got.Name)
}

func TestSaveArtifactNil(t *testing.T) {
	svc := NewService()

	err := svc.SaveArtifact(context.Background(), "doc-1", nil)
	require.EqualError(t, err, "artifact is nil")
}

func TestSaveArtifactReplacesPrevious(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	require.NoError(t, svc.SaveArtifact(ctx, "doc-1", &artifact.Artifact{Data: []byte("v1")}))
	require.NoError(t, svc.SaveArtifact(ctx, "doc-1", &artifact.Artifact{Data: []byte("v2")}))

	got, err := svc.LoadArtifact(ctx, "doc-1")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got.Data)
}

func TestLoadArtifactNotFound(t *testing.T) {
	svc := NewService()

	_, err := svc.LoadArtifact(context.Background(), "missing")
	require.ErrorIs(t, err, artifact.ErrArtifactNotFound)
}

func TestDeleteArtifact(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	require.NoError(t, svc.SaveArtifact(ctx, "doc-1", &artifact.Artifact{Data: []byte("bytes")}))
	require.NoError(t, svc.DeleteArtifact(ctx, "doc-1"))

	_, err := svc.LoadArtifact(ctx, "doc-1")
	require.ErrorIs(t, err, artifact.ErrArtifactNotFound)

	// Deleting a missing artifact is not an error.
	require.NoError(t, svc.DeleteArtifact(ctx, "doc-1"))
}

func TestListArtifactKeys(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	keys, err := svc.ListArtifactKeys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)

	require.NoError(t, svc.SaveArtifact(ctx, "doc-b", &artifact.Artifact{Data: []byte("b")}))
	require.NoError(t, svc.SaveArtifact(ctx, "doc-a", &artifact.Artifact{Data: []byte("a")}))

	keys, err = svc.ListArtifactKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"doc-a", "doc-b"}, keys)
}

func TestReturnedArtifactIsACopy(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	saved := &artifact.Artifact{Data: []byte("original"), MimeType: "text/plain"}
	require.NoError(t, svc.SaveArtifact(ctx, "doc-1", saved))

	// Mutating the saved value must not affect the stored artifact.
	saved.Data[0] = 'X'

	got, err := svc.LoadArtifact(ctx, "doc-1")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got.Data)

	// Mutating the loaded value must not affect subsequent loads.
	got.Data[0] = 'Y'

	again, err := svc.LoadArtifact(ctx, "doc-1")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), again.Data)
}
