//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package veo generates short videos through the remote video model.
//
// Submission returns a long-running operation that is polled at a fixed
// interval until terminal. The wait suspends the calling goroutine without
// busy-spinning, honours context cancellation, and is bounded by a hard
// deadline. An operation that completes with an error is a business
// outcome, not a Go error: it comes back as a failed Result so the
// orchestrating layer can decide how to react.
package veo

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/jswortz/obelisk/artifact"
	"github.com/jswortz/obelisk/config"
	"github.com/jswortz/obelisk/errs"
	"github.com/jswortz/obelisk/gcs"
	"github.com/jswortz/obelisk/locator"
	"github.com/jswortz/obelisk/log"
)

const (
	videoMIMEType    = "video/mp4"
	seedImageMIME    = "image/png"
	defaultNumVideos = 1
)

var tracer = otel.Tracer("github.com/jswortz/obelisk/veo")

// Operator abstracts the video model's long-running operation API so tests
// can drive the poll loop deterministically.
type Operator interface {
	// GenerateVideos submits a generation job.
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	// GetVideosOperation fetches the current state of a submitted job.
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

// genaiOperator is the production Operator backed by a genai client.
type genaiOperator struct {
	client *genai.Client
}

// NewOperator wraps a genai client as an Operator.
func NewOperator(client *genai.Client) Operator {
	return &genaiOperator{client: client}
}

func (o *genaiOperator) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return o.client.Models.GenerateVideos(ctx, model, prompt, image, cfg)
}

func (o *genaiOperator) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return o.client.Operations.GetVideosOperation(ctx, op, nil)
}

// Request describes one video generation call.
type Request struct {
	// Prompt describes the video to generate.
	Prompt string
	// NumVideos is the number of videos to request. Defaults to 1.
	NumVideos int
	// NegativePrompt describes what must not appear.
	NegativePrompt string
	// SeedImageURI optionally seeds generation with a durable image
	// locator. Session-local keys must be uploaded first.
	SeedImageURI string
}

// Result is the outcome of one generation. A failed remote operation has
// Status "failed" and an empty key list.
type Result struct {
	Status    string
	Error     string
	VideoKeys []string
}

// Generator submits video jobs, waits for them, and materializes output.
type Generator struct {
	cfg       *config.Config
	ops       Operator
	artifacts artifact.Service
	blobs     gcs.Store
}

// NewGenerator creates a video generator.
func NewGenerator(cfg *config.Config, ops Operator, artifacts artifact.Service, blobs gcs.Store) *Generator {
	return &Generator{
		cfg:       cfg,
		ops:       ops,
		artifacts: artifacts,
		blobs:     blobs,
	}
}

// Generate runs one video generation end to end: submit, poll to terminal,
// download and persist each produced video. The output bucket must be
// configured; that is checked before submission.
func (g *Generator) Generate(ctx context.Context, sessionInfo artifact.SessionInfo, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "veo.generate")
	defer span.End()

	result, err := g.generate(ctx, sessionInfo, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("video.status", result.Status),
		attribute.Int("video.count", len(result.VideoKeys)),
	)
	return result, nil
}

func (g *Generator) generate(ctx context.Context, sessionInfo artifact.SessionInfo, req Request) (*Result, error) {
	if err := g.cfg.RequireBucket(); err != nil {
		return nil, err
	}
	if req.SeedImageURI != "" && !locator.IsDurable(req.SeedImageURI) {
		return nil, fmt.Errorf("%w: seed image %q must be a durable locator",
			errs.ErrValidation, req.SeedImageURI)
	}

	numVideos := req.NumVideos
	if numVideos <= 0 {
		numVideos = defaultNumVideos
	}

	genConfig := &genai.GenerateVideosConfig{
		AspectRatio:    g.cfg.VideoAspectRatio,
		NumberOfVideos: int32(numVideos),
		OutputGCSURI:   g.cfg.Bucket,
		NegativePrompt: req.NegativePrompt,
	}

	var seedImage *genai.Image
	if req.SeedImageURI != "" {
		seedImage = &genai.Image{GCSURI: req.SeedImageURI, MIMEType: seedImageMIME}
	}

	op, err := g.ops.GenerateVideos(ctx, g.cfg.VideoModel, req.Prompt, seedImage, genConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: submit failed: %v", errs.ErrRemoteService, err)
	}
	log.Infof("veo: submitted operation %s", op.Name)

	op, err = g.waitForOperation(ctx, op)
	if err != nil {
		return nil, err
	}

	if op.Error != nil {
		log.Warnf("veo: operation %s failed: %v", op.Name, op.Error)
		return &Result{
			Status: "failed",
			Error:  fmt.Sprintf("%v", op.Error),
		}, nil
	}

	return g.materialize(ctx, sessionInfo, op)
}

// waitForOperation polls the operation at the configured interval until it
// is done. The wait is bounded by the configured deadline and aborts on
// caller cancellation.
func (g *Generator) waitForOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.VideoDeadline)
	defer cancel()

	timer := time.NewTimer(g.cfg.PollInterval)
	defer timer.Stop()

	var err error
	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("video generation aborted: %w", ctx.Err())
		case <-timer.C:
		}

		op, err = g.ops.GetVideosOperation(ctx, op)
		if err != nil {
			return nil, fmt.Errorf("%w: poll failed: %v", errs.ErrRemoteService, err)
		}
		log.Debugf("veo: operation %s done=%v", op.Name, op.Done)
		timer.Reset(g.cfg.PollInterval)
	}
	return op, nil
}

// materialize downloads each generated video from the output bucket and
// persists it as a fresh artifact.
func (g *Generator) materialize(ctx context.Context, sessionInfo artifact.SessionInfo, op *genai.GenerateVideosOperation) (*Result, error) {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return &Result{Status: "failed", Error: "operation finished without videos"}, nil
	}

	var keys []string
	for _, generated := range op.Response.GeneratedVideos {
		if generated == nil || generated.Video == nil || generated.Video.URI == "" {
			continue
		}
		bucket, object, err := locator.SplitURI(generated.Video.URI)
		if err != nil {
			return nil, err
		}
		if bucket != g.cfg.BucketName() {
			return nil, fmt.Errorf("%w: video %q is outside output bucket %q",
				errs.ErrValidation, generated.Video.URI, g.cfg.Bucket)
		}

		data, err := g.blobs.Download(ctx, object)
		if err != nil {
			return nil, err
		}

		key := artifact.NewKey(videoMIMEType)
		if _, err := g.artifacts.SaveArtifact(ctx, sessionInfo, key, &artifact.Artifact{
			Data:     data,
			MimeType: videoMIMEType,
			Name:     key,
		}); err != nil {
			return nil, fmt.Errorf("failed to save generated video: %w", err)
		}
		log.Infof("veo: stored generated video as %s", key)
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return &Result{Status: "failed", Error: "operation finished without videos"}, nil
	}
	return &Result{Status: "ok", VideoKeys: keys}, nil
}
