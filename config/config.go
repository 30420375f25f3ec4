//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package config holds the explicit pipeline configuration. Components take
// their configuration at construction; there is no ambient global state.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jswortz/obelisk/errs"
)

// Default model and timing values matching the production pipeline.
const (
	DefaultRecontextModel   = "imagen-product-recontext-preview-06-30"
	DefaultVideoModel       = "veo-2.0-generate-001"
	DefaultLocation         = "us-central1"
	DefaultPollInterval     = 15 * time.Second
	DefaultVideoDeadline    = 10 * time.Minute
	DefaultVideoAspectRatio = "16:9"
)

// Config carries everything the pipeline components need. Bucket may be
// empty; operations that require durable storage check it eagerly and fail
// with errs.ErrConfig before doing any work.
type Config struct {
	// ProjectID is the cloud project hosting the generation models.
	ProjectID string
	// Location is the region of the generation endpoint.
	Location string
	// Bucket is the durable output bucket in gs://bucket form.
	Bucket string
	// RecontextModel is the image recontextualization model name.
	RecontextModel string
	// VideoModel is the video generation model name.
	VideoModel string
	// VideoAspectRatio is the aspect ratio requested for generated videos.
	VideoAspectRatio string
	// PollInterval is the wait between video operation polls.
	PollInterval time.Duration
	// VideoDeadline bounds a single video generation end to end.
	VideoDeadline time.Duration
	// Endpoint overrides the predict endpoint base URL. Used in tests.
	Endpoint string
}

// LoadFromEnv builds a Config from the environment, applying defaults for
// everything except the project.
func LoadFromEnv() *Config {
	return &Config{
		ProjectID:        os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:         getEnvOrDefault("GOOGLE_CLOUD_LOCATION", DefaultLocation),
		Bucket:           os.Getenv("BUCKET"),
		RecontextModel:   getEnvOrDefault("RECONTEXT_MODEL", DefaultRecontextModel),
		VideoModel:       getEnvOrDefault("VIDEO_MODEL", DefaultVideoModel),
		VideoAspectRatio: DefaultVideoAspectRatio,
		PollInterval:     getEnvOrDefaultDuration("VIDEO_POLL_INTERVAL", DefaultPollInterval),
		VideoDeadline:    getEnvOrDefaultDuration("VIDEO_DEADLINE", DefaultVideoDeadline),
	}
}

// Validate reports missing required configuration.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT is required", errs.ErrConfig)
	}
	if c.Location == "" {
		return fmt.Errorf("%w: GOOGLE_CLOUD_LOCATION is required", errs.ErrConfig)
	}
	return nil
}

// RequireBucket reports a missing or malformed output bucket. Operations
// that upload call this before any side effect.
func (c *Config) RequireBucket() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: BUCKET is required for durable storage", errs.ErrConfig)
	}
	if !strings.HasPrefix(c.Bucket, "gs://") {
		return fmt.Errorf("%w: BUCKET must be a gs:// URI, got %q", errs.ErrConfig, c.Bucket)
	}
	return nil
}

// BucketName returns the bare bucket name without the gs:// scheme.
func (c *Config) BucketName() string {
	return strings.TrimPrefix(c.Bucket, "gs://")
}

// PredictEndpoint returns the full predict URL for the recontext model.
func (c *Config) PredictEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		c.Location, c.ProjectID, c.Location, c.RecontextModel,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
