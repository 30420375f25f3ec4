//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package concat stitches stored video artifacts into a single clip.
//
// Inputs are materialized into a scratch directory and joined with the
// ffmpeg concat demuxer using stream copy, so the videos are never
// re-encoded. The scratch directory is removed when the call returns and
// the combined clip is stored back as a fresh artifact.
package concat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jswortz/obelisk/artifact"
	"github.com/jswortz/obelisk/errs"
	"github.com/jswortz/obelisk/log"
)

const (
	outputMIMEType    = "video/mp4"
	defaultFFmpegPath = "ffmpeg"
)

// Option configures a Concatenator.
type Option func(*Concatenator)

// WithFFmpegPath overrides the ffmpeg binary path.
func WithFFmpegPath(path string) Option {
	return func(c *Concatenator) {
		c.ffmpegPath = path
	}
}

// Concatenator joins video artifacts from one session into a single video
// artifact.
type Concatenator struct {
	artifacts  artifact.Service
	ffmpegPath string
}

// NewConcatenator creates a Concatenator over the given artifact service.
func NewConcatenator(artifacts artifact.Service, opts ...Option) *Concatenator {
	c := &Concatenator{
		artifacts:  artifacts,
		ffmpegPath: defaultFFmpegPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Concatenate joins the named video artifacts in order and stores the
// result under outputKey, which defaults to a fresh generated key. All
// inputs are loaded before anything is written, so a missing input never
// leaves a partial output behind. The returned string is the key of the
// stored combined video.
func (c *Concatenator) Concatenate(ctx context.Context, sessionInfo artifact.SessionInfo, keys []string, outputKey string) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: no videos to concatenate", errs.ErrValidation)
	}
	if outputKey == "" {
		outputKey = artifact.NewKey(outputMIMEType)
	}

	inputs := make([]*artifact.Artifact, 0, len(keys))
	for _, key := range keys {
		art, err := c.artifacts.LoadArtifact(ctx, sessionInfo, key, nil)
		if err != nil {
			return "", fmt.Errorf("failed to load video %q: %w", key, err)
		}
		if art == nil || len(art.Data) == 0 {
			return "", fmt.Errorf("%w: video %q", errs.ErrNotFound, key)
		}
		inputs = append(inputs, art)
	}

	var combined []byte
	if len(inputs) == 1 {
		// A single input is passed through untouched.
		combined = inputs[0].Data
	} else {
		data, err := c.runFFmpeg(ctx, inputs)
		if err != nil {
			return "", err
		}
		combined = data
	}

	if _, err := c.artifacts.SaveArtifact(ctx, sessionInfo, outputKey, &artifact.Artifact{
		Data:     combined,
		MimeType: outputMIMEType,
		Name:     outputKey,
	}); err != nil {
		return "", fmt.Errorf("failed to save combined video: %w", err)
	}
	log.Infof("concat: joined %d videos into %s", len(inputs), outputKey)
	return outputKey, nil
}

// runFFmpeg writes the inputs to a scratch directory and joins them with
// the concat demuxer.
func (c *Concatenator) runFFmpeg(ctx context.Context, inputs []*artifact.Artifact) ([]byte, error) {
	scratch, err := os.MkdirTemp("", "concat-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			log.Warnf("concat: failed to remove scratch dir %s: %v", scratch, err)
		}
	}()

	var list strings.Builder
	for i, art := range inputs {
		path := filepath.Join(scratch, fmt.Sprintf("input_%03d.mp4", i))
		if err := os.WriteFile(path, art.Data, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write scratch input: %w", err)
		}
		fmt.Fprintf(&list, "file '%s'\n", path)
	}
	listPath := filepath.Join(scratch, "inputs.txt")
	if err := os.WriteFile(listPath, []byte(list.String()), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write concat list: %w", err)
	}

	outPath := filepath.Join(scratch, "output.mp4")
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, &errs.ProcessingError{
			Tool:   "ffmpeg",
			Output: string(output),
			Err:    err,
		}
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read combined video: %w", err)
	}
	return data, nil
}
