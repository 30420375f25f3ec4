//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package session provides the session-scoped slot state shared between
// pipeline stages.
//
// A slot is a named entry holding an ordered list of locators. Slots let one
// stage record produced media so a later stage can consume it without every
// value being threaded through every call. The slot names and their value
// shapes are fixed: list slots are append-only, singular slots hold exactly
// one locator and are overwritten on each selection.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jswortz/obelisk/artifact"
	"github.com/jswortz/obelisk/errs"
)

// Fixed slot names used by the pipeline.
const (
	// SlotRecontextualizedImages accumulates durable locators of generated
	// images, in production order. Append-only.
	SlotRecontextualizedImages = "recontextualized_image_locators"
	// SlotSelectedFile holds the single currently selected locator.
	// Overwritten on each selection.
	SlotSelectedFile = "selected_file"
)

var (
	// ErrAppNameRequired is the error for app name required.
	ErrAppNameRequired = errors.New("appName is required")
	// ErrUserIDRequired is the error for user id required.
	ErrUserIDRequired = errors.New("userID is required")
	// ErrSessionIDRequired is the error for session id required.
	ErrSessionIDRequired = errors.New("sessionID is required")
)

// Session is one user's pipeline session.
type Session struct {
	ID        string    `json:"id"`        // ID is the session id.
	AppName   string    `json:"appName"`   // AppName is the app name.
	UserID    string    `json:"userID"`    // UserID is the user id.
	CreatedAt time.Time `json:"createdAt"` // CreatedAt is the creation time.
	UpdatedAt time.Time `json:"updatedAt"` // UpdatedAt is the last update time.

	slotMu sync.RWMutex
	slots  map[string][]string
}

// New creates a session. All three identifiers are required.
func New(appName, userID, sessionID string) (*Session, error) {
	if appName == "" {
		return nil, ErrAppNameRequired
	}
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}
	now := time.Now()
	return &Session{
		ID:        sessionID,
		AppName:   appName,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		slots:     make(map[string][]string),
	}, nil
}

// Info returns the artifact-service scoping for this session.
func (sess *Session) Info() artifact.SessionInfo {
	return artifact.SessionInfo{
		AppName:   sess.AppName,
		UserID:    sess.UserID,
		SessionID: sess.ID,
	}
}

// AppendSlot appends a locator to the named slot, creating the slot as an
// empty list first if absent. The read-modify-write is atomic: concurrent
// appends never lose updates.
func (sess *Session) AppendSlot(name, loc string) {
	sess.slotMu.Lock()
	defer sess.slotMu.Unlock()

	sess.slots[name] = append(sess.slots[name], loc)
	sess.UpdatedAt = time.Now()
}

// SetSlot overwrites the named slot with a single locator. Used for
// singular slots such as SlotSelectedFile; last writer wins.
func (sess *Session) SetSlot(name, loc string) {
	sess.slotMu.Lock()
	defer sess.slotMu.Unlock()

	sess.slots[name] = []string{loc}
	sess.UpdatedAt = time.Now()
}

// Slot returns a copy of the named slot's locators and whether the slot
// exists.
func (sess *Session) Slot(name string) ([]string, bool) {
	sess.slotMu.RLock()
	defer sess.slotMu.RUnlock()

	locs, ok := sess.slots[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(locs))
	copy(out, locs)
	return out, true
}

// SelectSlot returns the locator at index within the named slot. An absent
// slot fails with errs.ErrNotFound; an out-of-range index fails with
// errs.ErrValidation.
func (sess *Session) SelectSlot(name string, index int) (string, error) {
	sess.slotMu.RLock()
	defer sess.slotMu.RUnlock()

	locs, ok := sess.slots[name]
	if !ok {
		return "", fmt.Errorf("%w: slot %q", errs.ErrNotFound, name)
	}
	if index < 0 || index >= len(locs) {
		return "", fmt.Errorf("%w: index %d out of range for slot %q of length %d",
			errs.ErrValidation, index, name, len(locs))
	}
	return locs[index], nil
}
