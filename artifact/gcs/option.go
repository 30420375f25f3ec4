//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package gcs

import (
	"cloud.google.com/go/storage"
)

// options holds the configuration for creating a GCS artifact service.
type options struct {
	client *storage.Client
}

// Option represents a functional option for configuring the service.
type Option func(*options)

// WithClient sets a pre-built storage client. Useful for tests and for
// sharing one client across services.
func WithClient(client *storage.Client) Option {
	return func(o *options) {
		o.client = client
	}
}
