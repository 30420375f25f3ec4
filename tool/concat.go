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
)

// ConcatenateVideos joins the named video artifacts into one clip stored
// under outputKey (generated when empty). A missing input is a Go error
// with no output written; an ffmpeg failure is reported as an error result.
func ConcatenateVideos(ctx context.Context, tc *ToolContext, keys []string, outputKey string) (*VideoResult, error) {
	combined, err := tc.Concat.Concatenate(ctx, tc.sessionInfo(), keys, outputKey)
	if err != nil {
		if isCallerFault(err) {
			return nil, err
		}
		log.Warnf("tool: concatenation failed: %v", err)
		return &VideoResult{Status: StatusError, Error: err.Error()}, nil
	}
	return &VideoResult{Status: StatusOK, VideoFilename: combined}, nil
}
