//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"context"
	"fmt"

	"github.com/jswortz/obelisk/artifact"
	"github.com/jswortz/obelisk/errs"
	"github.com/jswortz/obelisk/log"
)

// InboundFile is a file attached to an incoming request.
type InboundFile struct {
	// Name is the caller-supplied filename. A key is generated when empty.
	Name string
	// MimeType of the payload.
	MimeType string
	// Data is the file content.
	Data []byte
}

// SavedFile confirms one stored inbound file.
type SavedFile struct {
	Key     string `json:"key"`
	Version int    `json:"version"`
	Size    int    `json:"size"`
}

// InboundResult reports the stored inbound files in input order.
type InboundResult struct {
	Status string      `json:"status"`
	Files  []SavedFile `json:"files"`
}

// SaveInboundFiles persists every attached file as a session artifact so
// later operations can reference them by key. Empty payloads are rejected
// before anything is stored.
func SaveInboundFiles(ctx context.Context, tc *ToolContext, files []InboundFile) (*InboundResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files to save", errs.ErrValidation)
	}
	for i, f := range files {
		if len(f.Data) == 0 {
			return nil, fmt.Errorf("%w: file %d is empty", errs.ErrValidation, i)
		}
	}

	saved := make([]SavedFile, 0, len(files))
	for _, f := range files {
		key := f.Name
		if key == "" {
			key = artifact.NewKey(f.MimeType)
		}
		version, err := tc.Artifacts.SaveArtifact(ctx, tc.sessionInfo(), key, &artifact.Artifact{
			Data:     f.Data,
			MimeType: f.MimeType,
			Name:     key,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save inbound file %q: %w", key, err)
		}
		log.Debugf("tool: saved inbound file %s v%d (%d bytes)", key, version, len(f.Data))
		saved = append(saved, SavedFile{Key: key, Version: version, Size: len(f.Data)})
	}
	return &InboundResult{Status: StatusOK, Files: saved}, nil
}
