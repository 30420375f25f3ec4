//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory implementation of the artifact
// service. It is the session-scoped ephemeral store used by a running
// pipeline; durable persistence goes through the object storage uploader.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jswortz/obelisk/artifact"
)

// Service is an in-memory implementation of the artifact service.
type Service struct {
	// artifacts stores versions by path, oldest first.
	artifacts map[string][]*artifact.Artifact
	mutex     sync.RWMutex
}

// NewService creates a new in-memory artifact service.
func NewService() *Service {
	return &Service{
		artifacts: make(map[string][]*artifact.Artifact),
	}
}

// SaveArtifact saves an artifact to the in-memory storage.
func (s *Service) SaveArtifact(ctx context.Context, sessionInfo artifact.SessionInfo, key string, art *artifact.Artifact) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	path := s.artifactPath(sessionInfo, key)
	version := len(s.artifacts[path])
	s.artifacts[path] = append(s.artifacts[path], art)

	return version, nil
}

// LoadArtifact gets an artifact from the in-memory storage. A missing key
// returns nil without error.
func (s *Service) LoadArtifact(ctx context.Context, sessionInfo artifact.SessionInfo, key string, version *int) (*artifact.Artifact, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	path := s.artifactPath(sessionInfo, key)
	versions, exists := s.artifacts[path]
	if !exists || len(versions) == 0 {
		return nil, nil
	}

	versionIndex := len(versions) - 1
	if version != nil {
		versionIndex = *version
		if versionIndex < 0 || versionIndex >= len(versions) {
			return nil, fmt.Errorf("version %d does not exist", *version)
		}
	}

	return versions[versionIndex], nil
}

// ListArtifactKeys lists all the artifact keys within a session.
func (s *Service) ListArtifactKeys(ctx context.Context, sessionInfo artifact.SessionInfo) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sessionPrefix := fmt.Sprintf("%s/%s/%s/", sessionInfo.AppName, sessionInfo.UserID, sessionInfo.SessionID)
	userNamespacePrefix := fmt.Sprintf("%s/%s/user/", sessionInfo.AppName, sessionInfo.UserID)

	var keys []string
	for path := range s.artifacts {
		if strings.HasPrefix(path, sessionPrefix) {
			keys = append(keys, strings.TrimPrefix(path, sessionPrefix))
		} else if strings.HasPrefix(path, userNamespacePrefix) {
			keys = append(keys, strings.TrimPrefix(path, userNamespacePrefix))
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// DeleteArtifact deletes an artifact with all its versions. Deleting an
// unknown key is a no-op.
func (s *Service) DeleteArtifact(ctx context.Context, sessionInfo artifact.SessionInfo, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.artifacts, s.artifactPath(sessionInfo, key))
	return nil
}

// ListVersions lists all versions of an artifact.
func (s *Service) ListVersions(ctx context.Context, sessionInfo artifact.SessionInfo, key string) ([]int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	versions := s.artifacts[s.artifactPath(sessionInfo, key)]
	result := make([]int, len(versions))
	for i := range versions {
		result[i] = i
	}

	return result, nil
}

// fileHasUserNamespace checks if the key has a user namespace.
func (s *Service) fileHasUserNamespace(key string) bool {
	return strings.HasPrefix(key, "user:")
}

// artifactPath constructs the artifact path.
func (s *Service) artifactPath(sessionInfo artifact.SessionInfo, key string) string {
	if s.fileHasUserNamespace(key) {
		return fmt.Sprintf("%s/%s/user/%s", sessionInfo.AppName, sessionInfo.UserID, key)
	}
	return fmt.Sprintf("%s/%s/%s/%s", sessionInfo.AppName, sessionInfo.UserID, sessionInfo.SessionID, key)
}
