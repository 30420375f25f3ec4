//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package artifact provides the definition and service for media artifacts
// produced and consumed by the generation pipeline.
package artifact

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Artifact represents a content artifact such as an image or video.
type Artifact struct {
	// Data contains the raw bytes (required).
	Data []byte `json:"data,omitempty"`
	// MimeType is the IANA standard MIME type of the source data (required).
	MimeType string `json:"mime_type,omitempty"`
	// Name is an optional display name of the artifact.
	Name string `json:"name,omitempty"`
}

// NewKey generates a collision-resistant artifact key for the given MIME
// type, in the form <uuid>.<ext>. Concurrent writers never collide without
// coordination.
func NewKey(mimeType string) string {
	ext := "bin"
	if _, sub, found := strings.Cut(mimeType, "/"); found && sub != "" {
		ext = sub
	}
	return fmt.Sprintf("%s.%s", uuid.NewString(), ext)
}
