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
	"github.com/jswortz/obelisk/recontext"
	"github.com/jswortz/obelisk/session"
)

// ImageResult reports the outcome of an image generation.
type ImageResult struct {
	Status         string   `json:"status"`
	ImageFilenames []string `json:"image_filenames,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// RecontextImageBackground generates recontextualized product images and
// makes every generated image durable: each result is saved as a session
// artifact, uploaded to the bucket, and its gs:// locator appended to the
// recontextualized-images slot. Session artifacts alone would be lost with
// the session, so durability is not optional here.
func RecontextImageBackground(ctx context.Context, tc *ToolContext, req recontext.Request) (*ImageResult, error) {
	if err := tc.Config.RequireBucket(); err != nil {
		return nil, err
	}

	keys, err := tc.Images.Generate(ctx, tc.sessionInfo(), req)
	if err != nil {
		if isCallerFault(err) {
			return nil, err
		}
		log.Warnf("tool: image generation failed: %v", err)
		return &ImageResult{Status: StatusError, Error: err.Error()}, nil
	}

	for _, key := range keys {
		art, err := tc.Artifacts.LoadArtifact(ctx, tc.sessionInfo(), key, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load generated image %q: %w", key, err)
		}
		if art == nil {
			return nil, fmt.Errorf("%w: generated image %q", errs.ErrNotFound, key)
		}
		uri, err := tc.Blobs.Upload(ctx, key, art.Data, art.MimeType)
		if err != nil {
			return &ImageResult{Status: StatusError, Error: err.Error()}, nil
		}
		tc.Session.AppendSlot(session.SlotRecontextualizedImages, uri)
	}

	return &ImageResult{Status: StatusComplete, ImageFilenames: keys}, nil
}
