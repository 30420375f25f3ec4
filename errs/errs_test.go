//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteServiceError(t *testing.T) {
	err := &RemoteServiceError{StatusCode: 429, Body: "quota exceeded"}
	assert.True(t, errors.Is(err, ErrRemoteService))
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")

	var remoteErr *RemoteServiceError
	wrapped := fmt.Errorf("generate: %w", err)
	assert.True(t, errors.As(wrapped, &remoteErr))
	assert.Equal(t, 429, remoteErr.StatusCode)
}

func TestProcessingError(t *testing.T) {
	tests := []struct {
		name   string
		err    *ProcessingError
		expect string
	}{
		{
			name:   "with output",
			err:    &ProcessingError{Tool: "ffmpeg", Output: "invalid stream", Err: errors.New("exit status 1")},
			expect: "invalid stream",
		},
		{
			name:   "without output",
			err:    &ProcessingError{Tool: "ffmpeg", Err: errors.New("exit status 1")},
			expect: "exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, ErrProcessing))
			assert.Contains(t, tt.err.Error(), tt.expect)
		})
	}
}

func TestSentinelWrapping(t *testing.T) {
	wrapped := fmt.Errorf("artifact %q: %w", "missing.png", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrValidation))
}
