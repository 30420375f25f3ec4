//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"context"

	"github.com/jswortz/obelisk/log"
	"github.com/jswortz/obelisk/session"
	"github.com/jswortz/obelisk/veo"
)

// VideoResult reports the outcome of a video generation. VideoFilename is
// the first generated clip; VideoFilenames carries all of them when more
// than one was requested.
type VideoResult struct {
	Status         string   `json:"status"`
	VideoFilename  string   `json:"video_filename,omitempty"`
	VideoFilenames []string `json:"video_filenames,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// GenerateVideo runs one video generation. When the request carries no seed
// image the currently selected file, if any, seeds the generation. A failed
// remote operation is reported as a failed result, not a Go error.
func GenerateVideo(ctx context.Context, tc *ToolContext, req veo.Request) (*VideoResult, error) {
	if req.SeedImageURI == "" {
		if selected, err := tc.Session.SelectSlot(session.SlotSelectedFile, 0); err == nil {
			req.SeedImageURI = selected
		}
	}

	result, err := tc.Videos.Generate(ctx, tc.sessionInfo(), req)
	if err != nil {
		if isCallerFault(err) {
			return nil, err
		}
		log.Warnf("tool: video generation failed: %v", err)
		return &VideoResult{Status: StatusFailed, Error: err.Error()}, nil
	}
	if result.Status != "ok" {
		return &VideoResult{Status: StatusFailed, Error: result.Error}, nil
	}

	return &VideoResult{
		Status:         StatusOK,
		VideoFilename:  result.VideoKeys[0],
		VideoFilenames: result.VideoKeys,
	}, nil
}
