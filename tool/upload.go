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

	"github.com/jswortz/obelisk/errs"
	"github.com/jswortz/obelisk/log"
)

// UploadResult reports the outcome of a durable upload.
type UploadResult struct {
	Status string `json:"status"`
	GCSURI string `json:"gcs_uri,omitempty"`
	Error  string `json:"error,omitempty"`
}

// UploadFileToGCS copies the named session artifact into the configured
// bucket and appends the resulting gs:// locator to the named slot. The
// bucket requirement and the artifact's existence are checked before any
// network call; an upload failure leaves the slot unmodified and is
// reported as an error result.
func UploadFileToGCS(ctx context.Context, tc *ToolContext, key, slot string) (*UploadResult, error) {
	if err := tc.Config.RequireBucket(); err != nil {
		return nil, err
	}

	art, err := tc.Artifacts.LoadArtifact(ctx, tc.sessionInfo(), key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %q: %w", key, err)
	}
	if art == nil || len(art.Data) == 0 {
		return nil, fmt.Errorf("%w: artifact %q", errs.ErrNotFound, key)
	}

	uri, err := tc.Blobs.Upload(ctx, key, art.Data, art.MimeType)
	if err != nil {
		log.Warnf("tool: upload of %s failed: %v", key, err)
		return &UploadResult{Status: StatusError, Error: err.Error()}, nil
	}

	if slot != "" {
		tc.Session.AppendSlot(slot, uri)
	}
	return &UploadResult{Status: StatusOK, GCSURI: uri}, nil
}
