//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jswortz/obelisk/errs"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "gcp-obelisk-dev")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "")
	t.Setenv("BUCKET", "gs://prism-research-25")
	t.Setenv("VIDEO_POLL_INTERVAL", "5s")

	cfg := LoadFromEnv()
	assert.Equal(t, "gcp-obelisk-dev", cfg.ProjectID)
	assert.Equal(t, DefaultLocation, cfg.Location)
	assert.Equal(t, "gs://prism-research-25", cfg.Bucket)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, DefaultRecontextModel, cfg.RecontextModel)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Location: DefaultLocation}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConfig))
}

func TestRequireBucket(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{name: "missing", bucket: "", wantErr: true},
		{name: "not a gs uri", bucket: "prism-research-25", wantErr: true},
		{name: "valid", bucket: "gs://prism-research-25", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Bucket: tt.bucket}
			err := cfg.RequireBucket()
			if tt.wantErr {
				assert.True(t, errors.Is(err, errs.ErrConfig))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBucketName(t *testing.T) {
	cfg := &Config{Bucket: "gs://prism-research-25"}
	assert.Equal(t, "prism-research-25", cfg.BucketName())
}

func TestPredictEndpoint(t *testing.T) {
	cfg := &Config{
		ProjectID:      "gcp-obelisk-dev",
		Location:       "us-central1",
		RecontextModel: DefaultRecontextModel,
	}
	assert.Equal(t,
		"https://us-central1-aiplatform.googleapis.com/v1/projects/gcp-obelisk-dev/locations/us-central1/publishers/google/models/imagen-product-recontext-preview-06-30:predict",
		cfg.PredictEndpoint())

	cfg.Endpoint = "http://127.0.0.1:9090/predict"
	assert.Equal(t, "http://127.0.0.1:9090/predict", cfg.PredictEndpoint())
}
