//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package locator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jswortz/obelisk/errs"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Ref
	}{
		{
			name: "durable uri",
			raw:  "gs://prism-research-25/products/cup.png",
			want: Ref{Kind: KindDurable, URI: "gs://prism-research-25/products/cup.png"},
		},
		{
			name: "local artifact key",
			raw:  "local_cup.png",
			want: Ref{Kind: KindLocal, Key: "local_cup.png"},
		},
		{
			name: "local key containing a slash",
			raw:  "user:uploads/cup.png",
			want: Ref{Kind: KindLocal, Key: "user:uploads/cup.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.raw, got.Value())
		})
	}
}

func TestParseList(t *testing.T) {
	refs, kind, err := ParseList([]string{
		"gs://bucket/a.png",
		"gs://bucket/b.png",
	})
	require.NoError(t, err)
	assert.Equal(t, KindDurable, kind)
	assert.Len(t, refs, 2)

	refs, kind, err = ParseList([]string{"a.png", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, KindLocal, kind)
	assert.Len(t, refs, 2)
}

func TestParseListMixedKinds(t *testing.T) {
	_, _, err := ParseList([]string{"gs://bucket/a.png", "b.png"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Contains(t, err.Error(), "cannot mix storage kinds")

	// Order does not matter.
	_, _, err = ParseList([]string{"b.png", "gs://bucket/a.png"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestSplitURI(t *testing.T) {
	bucket, object, err := SplitURI("gs://prism-research-25/products/cup.png")
	require.NoError(t, err)
	assert.Equal(t, "prism-research-25", bucket)
	assert.Equal(t, "products/cup.png", object)

	_, _, err = SplitURI("local.png")
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, _, err = SplitURI("gs://bucket-only")
	assert.True(t, errors.Is(err, errs.ErrValidation))
}
