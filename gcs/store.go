//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package gcs provides blob access to the durable output bucket.
//
// The artifact services version objects per session; this store is the flat
// bucket view used for durable locators handed to the generation APIs and
// for reading back their output.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/jswortz/obelisk/errs"
	"github.com/jswortz/obelisk/locator"
)

// Store is the bucket blob contract used by the pipeline. Upload returns
// the durable gs:// locator of the written object.
type Store interface {
	Upload(ctx context.Context, object string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, object string) ([]byte, error)
	BucketURI() string
}

// BlobStore is a Store backed by a Google Cloud Storage bucket.
type BlobStore struct {
	bucketName string
	bucket     *storage.BucketHandle
}

// Option configures a BlobStore.
type Option func(*options)

type options struct {
	client *storage.Client
}

// WithClient sets a pre-built storage client.
func WithClient(client *storage.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// NewBlobStore creates a blob store for the given bucket name.
func NewBlobStore(ctx context.Context, bucketName string, opts ...Option) (*BlobStore, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	return &BlobStore{
		bucketName: bucketName,
		bucket:     client.Bucket(bucketName),
	}, nil
}

// Upload writes data under object with the given content type and returns
// the durable locator.
func (s *BlobStore) Upload(ctx context.Context, object string, data []byte, contentType string) (string, error) {
	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", object, err)
	}
	return fmt.Sprintf("%s%s/%s", locator.DurablePrefix, s.bucketName, object), nil
}

// Download reads the object's bytes. A missing object fails with
// errs.ErrNotFound.
func (s *BlobStore) Download(ctx context.Context, object string) ([]byte, error) {
	r, err := s.bucket.Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: object %q in bucket %q", errs.ErrNotFound, object, s.bucketName)
		}
		return nil, fmt.Errorf("failed to download %q: %w", object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", object, err)
	}
	return data, nil
}

// BucketURI returns the bucket in gs://bucket form.
func (s *BlobStore) BucketURI() string {
	return locator.DurablePrefix + s.bucketName
}
