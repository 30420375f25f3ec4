//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package artifact

import (
	"context"
)

// SessionInfo contains the session information for artifact operations.
type SessionInfo struct {
	// AppName is the name of the application.
	AppName string
	// UserID is the ID of the user.
	UserID string
	// SessionID is the ID of the session.
	SessionID string
}

// Service defines the interface for artifact storage and retrieval operations.
type Service interface {
	// SaveArtifact saves an artifact to the artifact service storage.
	//
	// The artifact is a file identified by the session info and key. After
	// saving, a revision ID is returned to identify the artifact version.
	// The first version of an artifact has a revision ID of 0; it is
	// incremented by 1 after each successful save of the same key.
	SaveArtifact(ctx context.Context, sessionInfo SessionInfo, key string, artifact *Artifact) (int, error)

	// LoadArtifact gets an artifact from the artifact service storage.
	//
	// If version is nil, the latest version is returned. A missing key is
	// not an error: the artifact is nil and the caller must check.
	LoadArtifact(ctx context.Context, sessionInfo SessionInfo, key string, version *int) (*Artifact, error)

	// ListArtifactKeys lists all the artifact keys within a session.
	ListArtifactKeys(ctx context.Context, sessionInfo SessionInfo) ([]string, error)

	// DeleteArtifact deletes an artifact with all its versions.
	DeleteArtifact(ctx context.Context, sessionInfo SessionInfo, key string) error

	// ListVersions lists all versions of an artifact.
	ListVersions(ctx context.Context, sessionInfo SessionInfo, key string) ([]int, error)
}
