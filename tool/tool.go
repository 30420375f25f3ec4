//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package tool is the operation layer of the pipeline. Each operation takes
// a ToolContext, performs one unit of work, and reports a uniform result
// with a status field.
//
// Error handling follows one rule: validation, configuration, and
// missing-input errors surface as Go errors before any side effect, while
// remote and local processing failures after the work has started are
// converted into failure results so the caller can relay them.
package tool

import (
	"errors"

	"github.com/jswortz/obelisk/artifact"
	"github.com/jswortz/obelisk/concat"
	"github.com/jswortz/obelisk/config"
	"github.com/jswortz/obelisk/errs"
	"github.com/jswortz/obelisk/gcs"
	"github.com/jswortz/obelisk/recontext"
	"github.com/jswortz/obelisk/session"
	"github.com/jswortz/obelisk/veo"
)

// Result statuses reported by operations.
const (
	StatusComplete = "complete"
	StatusOK       = "ok"
	StatusError    = "error"
	StatusFailed   = "failed"
)

// ToolContext bundles the services an operation needs. One ToolContext
// serves one session.
type ToolContext struct {
	Config    *config.Config
	Artifacts artifact.Service
	Session   *session.Session
	Blobs     gcs.Store
	Images    *recontext.Generator
	Videos    *veo.Generator
	Concat    *concat.Concatenator
}

// sessionInfo is a shorthand for the session's artifact scope.
func (tc *ToolContext) sessionInfo() artifact.SessionInfo {
	return tc.Session.Info()
}

// isCallerFault reports whether err is the caller's to fix rather than a
// downstream failure: bad input, bad configuration, missing credentials, or
// a missing artifact.
func isCallerFault(err error) bool {
	return errors.Is(err, errs.ErrValidation) ||
		errors.Is(err, errs.ErrConfig) ||
		errors.Is(err, errs.ErrAuth) ||
		errors.Is(err, errs.ErrNotFound)
}
