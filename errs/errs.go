//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package errs defines the error taxonomy shared across the media pipeline.
//
// Sentinel errors classify failures so that the operation layer can decide
// whether a failure is a caller mistake (validation, configuration), a
// missing resource, or an environmental fault. Wrap sentinels with
// fmt.Errorf("...: %w", ...) and test with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates malformed input. It is returned before any
	// network call or state mutation happens.
	ErrValidation = errors.New("validation error")
	// ErrConfig indicates missing required configuration, checked eagerly
	// before any side effect.
	ErrConfig = errors.New("configuration error")
	// ErrAuth indicates credential discovery or token refresh failure.
	ErrAuth = errors.New("auth error")
	// ErrNotFound indicates a missing artifact, slot, or state key.
	ErrNotFound = errors.New("not found")
	// ErrProcessing indicates a local tool failure such as a merge step.
	ErrProcessing = errors.New("processing error")
	// ErrRemoteService indicates a non-success response from a remote
	// generation API.
	ErrRemoteService = errors.New("remote service error")
)

// RemoteServiceError is returned when a remote generation API responds with
// a non-success status. It carries the status code and response body so the
// operation layer can surface the diagnostic to the caller.
type RemoteServiceError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrRemoteService) hold.
func (e *RemoteServiceError) Unwrap() error {
	return ErrRemoteService
}

// ProcessingError is returned when a local tool such as ffmpeg fails. Output
// carries the tool's diagnostic output verbatim.
type ProcessingError struct {
	Tool   string
	Output string
	Err    error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

// Unwrap makes errors.Is(err, ErrProcessing) hold.
func (e *ProcessingError) Unwrap() error {
	return ErrProcessing
}
