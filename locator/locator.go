//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package locator provides a public API for parsing media locators.
//
// A locator is either a durable object-storage URI (gs://bucket/path) or a
// session-local artifact key. The kind is decided once at the boundary so
// that callers never re-parse prefixes deep in a call chain.
package locator

import (
	"fmt"
	"strings"

	"github.com/jswortz/obelisk/errs"
)

// DurablePrefix is the scheme prefix marking a durable storage URI.
const DurablePrefix = "gs://"

// Kind discriminates the two locator forms.
type Kind int

const (
	// KindLocal is a session-scoped artifact key.
	KindLocal Kind = iota
	// KindDurable is an object-storage URI.
	KindDurable
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindDurable {
		return "durable"
	}
	return "local"
}

// Ref is a parsed locator.
type Ref struct {
	// Kind tells which of Key and URI is populated.
	Kind Kind
	// Key is the artifact key for local locators.
	Key string
	// URI is the full gs:// URI for durable locators.
	URI string
}

// Value returns the raw string form of the locator.
func (r Ref) Value() string {
	if r.Kind == KindDurable {
		return r.URI
	}
	return r.Key
}

// Parse parses raw into a Ref.
func Parse(raw string) Ref {
	if strings.HasPrefix(raw, DurablePrefix) {
		return Ref{Kind: KindDurable, URI: raw}
	}
	return Ref{Kind: KindLocal, Key: raw}
}

// IsDurable reports whether raw carries the durable storage prefix.
func IsDurable(raw string) bool {
	return strings.HasPrefix(raw, DurablePrefix)
}

// ParseList parses a list of peer locators and enforces that they all share
// one kind. Mixing durable URIs and local keys in one call fails with
// errs.ErrValidation; callers must resolve or upload first.
func ParseList(raws []string) ([]Ref, Kind, error) {
	refs := make([]Ref, 0, len(raws))
	var kind Kind
	for i, raw := range raws {
		ref := Parse(raw)
		if i == 0 {
			kind = ref.Kind
		} else if ref.Kind != kind {
			return nil, kind, fmt.Errorf(
				"%w: cannot mix storage kinds, %q is %s but %q is %s",
				errs.ErrValidation, raws[0], kind, raw, ref.Kind,
			)
		}
		refs = append(refs, ref)
	}
	return refs, kind, nil
}

// SplitURI splits a durable URI into bucket and object path.
func SplitURI(uri string) (bucket, object string, err error) {
	if !IsDurable(uri) {
		return "", "", fmt.Errorf("%w: %q is not a %s URI", errs.ErrValidation, uri, DurablePrefix)
	}
	rest := strings.TrimPrefix(uri, DurablePrefix)
	bucket, object, found := strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: malformed storage URI %q", errs.ErrValidation, uri)
	}
	return bucket, object, nil
}
