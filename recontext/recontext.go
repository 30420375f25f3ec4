//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package recontext calls the remote product recontextualization service.
//
// The service accepts 1-3 product images plus an optional person image and
// renders the product into the scene the prompt describes. Inputs are given
// as locators: either all durable gs:// URIs (referenced in place, no bytes
// transferred) or all session-local artifact keys (loaded and inlined as
// base64). Results come back as base64 images and are persisted to the
// artifact store under fresh keys.
package recontext

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jswortz/obelisk/artifact"
	"github.com/jswortz/obelisk/auth"
	"github.com/jswortz/obelisk/config"
	"github.com/jswortz/obelisk/errs"
	"github.com/jswortz/obelisk/locator"
	"github.com/jswortz/obelisk/log"
)

// Product image count bounds enforced before any network call.
const (
	MinProductImages = 1
	MaxProductImages = 3
)

const (
	defaultMIMEType = "image/png"
	outputMIMEType  = "image/png"
	defaultTimeout  = 120 * time.Second
)

var tracer = otel.Tracer("github.com/jswortz/obelisk/recontext")

// Request describes one recontextualization call.
type Request struct {
	// Prompt is the scene description.
	Prompt string
	// ProductLocators reference 1-3 product images, all of one locator kind.
	ProductLocators []string
	// ProductDescription applies to every product image.
	ProductDescription string
	// SampleCount is the number of images to generate. Defaults to 1.
	SampleCount int
	// ProductMIMETypes optionally gives a MIME type per product locator.
	// Defaults to image/png for all. Must be length-matched when given.
	ProductMIMETypes []string
	// PersonLocator optionally references a person image, same locator
	// kind as the products.
	PersonLocator string
	// PersonMIMEType is the MIME type of the person image. Defaults to
	// image/png.
	PersonMIMEType string
}

// Generator calls the recontextualization endpoint and persists results.
type Generator struct {
	cfg        *config.Config
	tokens     auth.TokenProvider
	artifacts  artifact.Service
	httpClient *http.Client
}

// Option configures a Generator.
type Option func(*Generator)

// WithHTTPClient sets the HTTP client used for predict calls.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		g.httpClient = client
	}
}

// NewGenerator creates a recontextualization generator.
func NewGenerator(cfg *config.Config, tokens auth.TokenProvider, artifacts artifact.Service, opts ...Option) *Generator {
	g := &Generator{
		cfg:        cfg,
		tokens:     tokens,
		artifacts:  artifacts,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wire format of the predict endpoint.
type imageRef struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	GCSURI             string `json:"gcsUri,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

type productConfig struct {
	ProductDescription string `json:"productDescription"`
}

type productImage struct {
	Image         imageRef      `json:"image"`
	ProductConfig productConfig `json:"productConfig"`
}

type personImage struct {
	Image imageRef `json:"image"`
}

type instance struct {
	Prompt        string         `json:"prompt"`
	ProductImages []productImage `json:"productImages"`
	PersonImage   *personImage   `json:"personImage,omitempty"`
}

type parameters struct {
	SampleCount int `json:"sampleCount"`
}

type predictRequest struct {
	Instances  []instance `json:"instances"`
	Parameters parameters `json:"parameters"`
}

type prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type predictResponse struct {
	Predictions []prediction `json:"predictions"`
}

// Generate runs one recontextualization call and returns the artifact keys
// of the generated images, in response order. Validation happens before any
// network traffic; a non-success response fails with
// *errs.RemoteServiceError.
func (g *Generator) Generate(ctx context.Context, sessionInfo artifact.SessionInfo, req Request) ([]string, error) {
	ctx, span := tracer.Start(ctx, "recontext.generate")
	defer span.End()

	keys, err := g.generate(ctx, sessionInfo, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("images.generated", len(keys)))
	return keys, nil
}

func (g *Generator) generate(ctx context.Context, sessionInfo artifact.SessionInfo, req Request) ([]string, error) {
	refs, err := validate(&req)
	if err != nil {
		return nil, err
	}

	payload, err := g.buildPayload(ctx, sessionInfo, req, refs)
	if err != nil {
		return nil, err
	}

	resp, err := g.predict(ctx, payload)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		data, err := base64.StdEncoding.DecodeString(p.BytesBase64Encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode prediction: %w", err)
		}
		key := artifact.NewKey(outputMIMEType)
		if _, err := g.artifacts.SaveArtifact(ctx, sessionInfo, key, &artifact.Artifact{
			Data:     data,
			MimeType: outputMIMEType,
			Name:     key,
		}); err != nil {
			return nil, fmt.Errorf("failed to save generated image: %w", err)
		}
		keys = append(keys, key)
	}

	log.Debugf("recontext: generated %d image(s) for prompt %q", len(keys), req.Prompt)
	return keys, nil
}

// validate checks shape and counts, applies defaults, and decides the
// locator kind. It must not do any I/O.
func validate(req *Request) ([]locator.Ref, error) {
	if len(req.ProductLocators) < MinProductImages || len(req.ProductLocators) > MaxProductImages {
		return nil, fmt.Errorf("%w: please provide %d-%d product images, got %d",
			errs.ErrValidation, MinProductImages, MaxProductImages, len(req.ProductLocators))
	}

	if req.ProductMIMETypes == nil {
		req.ProductMIMETypes = make([]string, len(req.ProductLocators))
		for i := range req.ProductMIMETypes {
			req.ProductMIMETypes[i] = defaultMIMEType
		}
	} else if len(req.ProductMIMETypes) != len(req.ProductLocators) {
		return nil, fmt.Errorf("%w: %d MIME type hints for %d product images",
			errs.ErrValidation, len(req.ProductMIMETypes), len(req.ProductLocators))
	}

	if req.PersonMIMEType == "" {
		req.PersonMIMEType = defaultMIMEType
	}
	if req.SampleCount <= 0 {
		req.SampleCount = 1
	}

	refs, kind, err := locator.ParseList(req.ProductLocators)
	if err != nil {
		return nil, err
	}
	if req.PersonLocator != "" && locator.Parse(req.PersonLocator).Kind != kind {
		return nil, fmt.Errorf("%w: cannot mix storage kinds, person image %q does not match product images",
			errs.ErrValidation, req.PersonLocator)
	}
	return refs, nil
}

// buildPayload assembles the predict request body for either transport
// variant: durable locators are referenced by URI, local keys are loaded
// from the artifact store and inlined.
func (g *Generator) buildPayload(
	ctx context.Context,
	sessionInfo artifact.SessionInfo,
	req Request,
	refs []locator.Ref,
) (*predictRequest, error) {
	inst := instance{Prompt: req.Prompt}

	for i, ref := range refs {
		image, err := g.imageRefFor(ctx, sessionInfo, ref, req.ProductMIMETypes[i])
		if err != nil {
			return nil, err
		}
		inst.ProductImages = append(inst.ProductImages, productImage{
			Image:         image,
			ProductConfig: productConfig{ProductDescription: req.ProductDescription},
		})
	}

	if req.PersonLocator != "" {
		image, err := g.imageRefFor(ctx, sessionInfo, locator.Parse(req.PersonLocator), req.PersonMIMEType)
		if err != nil {
			return nil, err
		}
		inst.PersonImage = &personImage{Image: image}
	}

	return &predictRequest{
		Instances:  []instance{inst},
		Parameters: parameters{SampleCount: req.SampleCount},
	}, nil
}

func (g *Generator) imageRefFor(ctx context.Context, sessionInfo artifact.SessionInfo, ref locator.Ref, mimeType string) (imageRef, error) {
	if ref.Kind == locator.KindDurable {
		return imageRef{GCSURI: ref.URI, MimeType: mimeType}, nil
	}

	art, err := g.artifacts.LoadArtifact(ctx, sessionInfo, ref.Key, nil)
	if err != nil {
		return imageRef{}, fmt.Errorf("failed to load artifact %q: %w", ref.Key, err)
	}
	if art == nil || len(art.Data) == 0 {
		return imageRef{}, fmt.Errorf("%w: artifact %q", errs.ErrNotFound, ref.Key)
	}
	return imageRef{
		BytesBase64Encoded: base64.StdEncoding.EncodeToString(art.Data),
		MimeType:           mimeType,
	}, nil
}

// predict posts the payload with a fresh bearer token and decodes the
// response.
func (g *Generator) predict(ctx context.Context, payload *predictRequest) (*predictResponse, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.PredictEndpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create predict request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("predict call failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read predict response: %w", err)
	}
	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return nil, &errs.RemoteServiceError{
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	var resp predictResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode predict response: %w", err)
	}
	return &resp, nil
}
