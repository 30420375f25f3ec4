//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package artifact

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		wantExt  string
	}{
		{name: "png", mimeType: "image/png", wantExt: "png"},
		{name: "mp4", mimeType: "video/mp4", wantExt: "mp4"},
		{name: "jpeg", mimeType: "image/jpeg", wantExt: "jpeg"},
		{name: "no subtype", mimeType: "image", wantExt: "bin"},
		{name: "empty", mimeType: "", wantExt: "bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewKey(tt.mimeType)
			base, ext, found := strings.Cut(key, ".")
			require.True(t, found)
			assert.Equal(t, tt.wantExt, ext)
			_, err := uuid.Parse(base)
			assert.NoError(t, err)
		})
	}
}

func TestNewKeyUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := NewKey("image/png")
		assert.False(t, seen[key])
		seen[key] = true
	}
}
