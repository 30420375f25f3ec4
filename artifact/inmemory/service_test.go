//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jswortz/obelisk/artifact"
)

var testSession = artifact.SessionInfo{
	AppName:   "obelisk",
	UserID:    "user-1",
	SessionID: "session-1",
}

func TestSaveAndLoadVersions(t *testing.T) {
	service := NewService()
	ctx := context.Background()

	v0, err := service.SaveArtifact(ctx, testSession, "cup.png", &artifact.Artifact{
		Data:     []byte("first"),
		MimeType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, v0)

	v1, err := service.SaveArtifact(ctx, testSession, "cup.png", &artifact.Artifact{
		Data:     []byte("second"),
		MimeType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v1)

	// Latest wins without an explicit version.
	latest, err := service.LoadArtifact(ctx, testSession, "cup.png", nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, []byte("second"), latest.Data)

	// Both versions stay retrievable.
	zero := 0
	first, err := service.LoadArtifact(ctx, testSession, "cup.png", &zero)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, []byte("first"), first.Data)

	versions, err := service.ListVersions(ctx, testSession, "cup.png")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, versions)
}

func TestLoadMissingKey(t *testing.T) {
	service := NewService()

	art, err := service.LoadArtifact(context.Background(), testSession, "missing.png", nil)
	require.NoError(t, err)
	assert.Nil(t, art)
}

func TestLoadOutOfRangeVersion(t *testing.T) {
	service := NewService()
	ctx := context.Background()

	_, err := service.SaveArtifact(ctx, testSession, "cup.png", &artifact.Artifact{Data: []byte("x")})
	require.NoError(t, err)

	bad := 5
	_, err = service.LoadArtifact(ctx, testSession, "cup.png", &bad)
	assert.Error(t, err)
}

func TestListArtifactKeys(t *testing.T) {
	service := NewService()
	ctx := context.Background()

	for _, key := range []string{"b.png", "a.mp4", "user:shared.png"} {
		_, err := service.SaveArtifact(ctx, testSession, key, &artifact.Artifact{Data: []byte("x")})
		require.NoError(t, err)
	}

	keys, err := service.ListArtifactKeys(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp4", "b.png", "user:shared.png"}, keys)

	// Session-scoped keys are invisible to other sessions; user-namespaced
	// keys are shared across them.
	otherSession := testSession
	otherSession.SessionID = "session-2"
	keys, err = service.ListArtifactKeys(ctx, otherSession)
	require.NoError(t, err)
	assert.Equal(t, []string{"user:shared.png"}, keys)
}

func TestDeleteArtifact(t *testing.T) {
	service := NewService()
	ctx := context.Background()

	_, err := service.SaveArtifact(ctx, testSession, "cup.png", &artifact.Artifact{Data: []byte("x")})
	require.NoError(t, err)

	require.NoError(t, service.DeleteArtifact(ctx, testSession, "cup.png"))

	art, err := service.LoadArtifact(ctx, testSession, "cup.png", nil)
	require.NoError(t, err)
	assert.Nil(t, art)

	// Deleting an unknown key is not an error.
	require.NoError(t, service.DeleteArtifact(ctx, testSession, "cup.png"))
}

func TestConcurrentSaves(t *testing.T) {
	service := NewService()
	ctx := context.Background()

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.SaveArtifact(ctx, testSession, "contended.png", &artifact.Artifact{
				Data: []byte(fmt.Sprintf("write-%d", i)),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	versions, err := service.ListVersions(ctx, testSession, "contended.png")
	require.NoError(t, err)
	assert.Len(t, versions, writers)
}
