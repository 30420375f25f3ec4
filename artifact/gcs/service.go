//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package gcs provides a Google Cloud Storage implementation of the
// artifact service, for pipelines whose artifacts must outlive the process.
//
// The object name format used depends on whether the key has a user
// namespace:
//   - For keys with user namespace (starting with "user:"):
//     {app_name}/{user_id}/user/{key}/{version}
//   - For regular session-scoped keys:
//     {app_name}/{user_id}/{session_id}/{key}/{version}
//
// Authentication uses application default credentials.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/jswortz/obelisk/artifact"
	iartifact "github.com/jswortz/obelisk/internal/artifact"
)

// Service is a Google Cloud Storage implementation of the artifact service.
type Service struct {
	bucket *storage.BucketHandle
}

// NewService creates a GCS artifact service for the given bucket name.
func NewService(ctx context.Context, bucketName string, opts ...Option) (*Service, error) {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	return &Service{bucket: client.Bucket(bucketName)}, nil
}

// SaveArtifact saves an artifact to Google Cloud Storage.
func (s *Service) SaveArtifact(ctx context.Context, sessionInfo artifact.SessionInfo, key string, art *artifact.Artifact) (int, error) {
	versions, err := s.ListVersions(ctx, sessionInfo, key)
	if err != nil {
		return 0, fmt.Errorf("failed to list versions: %w", err)
	}

	version := 0
	if len(versions) > 0 {
		maxVersion := 0
		for _, v := range versions {
			if v > maxVersion {
				maxVersion = v
			}
		}
		version = maxVersion + 1
	}

	objectName := iartifact.BuildObjectName(sessionInfo, key, version)

	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = art.MimeType
	if _, err := w.Write(art.Data); err != nil {
		w.Close()
		return 0, fmt.Errorf("failed to upload artifact: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to upload artifact: %w", err)
	}

	return version, nil
}

// LoadArtifact gets an artifact from Google Cloud Storage. A missing key
// returns nil without error.
func (s *Service) LoadArtifact(ctx context.Context, sessionInfo artifact.SessionInfo, key string, version *int) (*artifact.Artifact, error) {
	var targetVersion int

	if version == nil {
		versions, err := s.ListVersions(ctx, sessionInfo, key)
		if err != nil {
			return nil, fmt.Errorf("failed to list versions: %w", err)
		}
		if len(versions) == 0 {
			return nil, nil
		}

		maxVersion := 0
		for _, v := range versions {
			if v > maxVersion {
				maxVersion = v
			}
		}
		targetVersion = maxVersion
	} else {
		targetVersion = *version
	}

	objectName := iartifact.BuildObjectName(sessionInfo, key, targetVersion)

	r, err := s.bucket.Object(objectName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to download artifact: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact data: %w", err)
	}

	contentType := r.Attrs.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &artifact.Artifact{
		Data:     data,
		MimeType: contentType,
		Name:     key,
	}, nil
}

// ListArtifactKeys lists all the artifact keys within a session.
func (s *Service) ListArtifactKeys(ctx context.Context, sessionInfo artifact.SessionInfo) ([]string, error) {
	keySet := make(map[string]bool)

	for _, prefix := range []string{
		iartifact.BuildSessionPrefix(sessionInfo),
		iartifact.BuildUserNamespacePrefix(sessionInfo),
	} {
		objects, err := s.listObjects(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list artifacts: %w", err)
		}
		for _, name := range objects {
			parts := strings.Split(name, "/")
			if len(parts) >= 4 {
				keySet[parts[len(parts)-2]] = true // key is before version
			}
		}
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}

// DeleteArtifact deletes all versions of an artifact.
func (s *Service) DeleteArtifact(ctx context.Context, sessionInfo artifact.SessionInfo, key string) error {
	versions, err := s.ListVersions(ctx, sessionInfo, key)
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}

	for _, version := range versions {
		objectName := iartifact.BuildObjectName(sessionInfo, key, version)
		if err := s.bucket.Object(objectName).Delete(ctx); err != nil &&
			!errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("failed to delete artifact version %d: %w", version, err)
		}
	}

	return nil
}

// ListVersions lists all versions of an artifact.
func (s *Service) ListVersions(ctx context.Context, sessionInfo artifact.SessionInfo, key string) ([]int, error) {
	prefix := iartifact.BuildObjectNamePrefix(sessionInfo, key)

	objects, err := s.listObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}

	var versions []int
	for _, name := range objects {
		parts := strings.Split(name, "/")
		if len(parts) > 0 {
			if version, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				versions = append(versions, version)
			}
		}
	}
	return versions, nil
}

// listObjects returns the names of all objects under prefix.
func (s *Service) listObjects(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}
