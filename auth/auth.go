//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package auth obtains bearer credentials for the remote generation APIs.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"

	"github.com/jswortz/obelisk/errs"
)

// CloudPlatformScope is the OAuth scope required by the generation APIs.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// TokenProvider supplies a bearer token for one authenticated request.
// Callers invoke it immediately before each request so tokens never go
// stale mid-pipeline.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ADCTokenProvider discovers ambient application default credentials and
// refreshes them on every call. It keeps no cache of its own beyond what
// the credential refresh provides.
type ADCTokenProvider struct {
	scopes []string
}

// NewADCTokenProvider creates a provider with the given scopes, defaulting
// to the cloud-platform scope.
func NewADCTokenProvider(scopes ...string) *ADCTokenProvider {
	if len(scopes) == 0 {
		scopes = []string{CloudPlatformScope}
	}
	return &ADCTokenProvider{scopes: scopes}
}

// Token implements TokenProvider.
func (p *ADCTokenProvider) Token(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, p.scopes...)
	if err != nil {
		return "", fmt.Errorf("%w: no ambient credentials: %v", errs.ErrAuth, err)
	}
	tok, err := creds.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("%w: token refresh failed: %v", errs.ErrAuth, err)
	}
	return tok.AccessToken, nil
}

// StaticTokenProvider returns a fixed token. Useful for tests and for
// environments where the token is injected externally.
type StaticTokenProvider string

// Token implements TokenProvider.
func (p StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty static token", errs.ErrAuth)
	}
	return string(p), nil
}
