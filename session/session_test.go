//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jswortz/obelisk/errs"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := New("obelisk", "user-1", "session-1")
	require.NoError(t, err)
	return sess
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		app     string
		user    string
		id      string
		wantErr error
	}{
		{name: "missing app", app: "", user: "u", id: "s", wantErr: ErrAppNameRequired},
		{name: "missing user", app: "a", user: "", id: "s", wantErr: ErrUserIDRequired},
		{name: "missing id", app: "a", user: "u", id: "", wantErr: ErrSessionIDRequired},
		{name: "complete", app: "a", user: "u", id: "s", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := New(tt.app, tt.user, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.app, sess.Info().AppName)
		})
	}
}

func TestAppendSlot(t *testing.T) {
	sess := newTestSession(t)

	// Absent slot becomes a singleton list.
	sess.AppendSlot(SlotRecontextualizedImages, "gs://bucket/a.png")
	locs, ok := sess.Slot(SlotRecontextualizedImages)
	require.True(t, ok)
	assert.Equal(t, []string{"gs://bucket/a.png"}, locs)

	// Sequential appends preserve call order.
	sess.AppendSlot(SlotRecontextualizedImages, "gs://bucket/b.png")
	locs, ok = sess.Slot(SlotRecontextualizedImages)
	require.True(t, ok)
	assert.Equal(t, []string{"gs://bucket/a.png", "gs://bucket/b.png"}, locs)
}

func TestSetSlotOverwrites(t *testing.T) {
	sess := newTestSession(t)

	sess.SetSlot(SlotSelectedFile, "a.png")
	sess.SetSlot(SlotSelectedFile, "b.png")

	locs, ok := sess.Slot(SlotSelectedFile)
	require.True(t, ok)
	assert.Equal(t, []string{"b.png"}, locs)
}

func TestSlotMissing(t *testing.T) {
	sess := newTestSession(t)

	_, ok := sess.Slot("unknown")
	assert.False(t, ok)
}

func TestSlotReturnsCopy(t *testing.T) {
	sess := newTestSession(t)
	sess.AppendSlot(SlotRecontextualizedImages, "a.png")

	locs, _ := sess.Slot(SlotRecontextualizedImages)
	locs[0] = "mutated"

	fresh, _ := sess.Slot(SlotRecontextualizedImages)
	assert.Equal(t, []string{"a.png"}, fresh)
}

func TestSelectSlot(t *testing.T) {
	sess := newTestSession(t)
	sess.AppendSlot(SlotRecontextualizedImages, "a.png")
	sess.AppendSlot(SlotRecontextualizedImages, "b.png")

	loc, err := sess.SelectSlot(SlotRecontextualizedImages, 1)
	require.NoError(t, err)
	assert.Equal(t, "b.png", loc)

	_, err = sess.SelectSlot("unknown", 0)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = sess.SelectSlot(SlotRecontextualizedImages, 2)
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, err = sess.SelectSlot(SlotRecontextualizedImages, -1)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	sess := newTestSession(t)

	const appenders = 64
	var wg sync.WaitGroup
	for i := 0; i < appenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess.AppendSlot(SlotRecontextualizedImages, fmt.Sprintf("gs://bucket/%d.png", i))
		}(i)
	}
	wg.Wait()

	locs, ok := sess.Slot(SlotRecontextualizedImages)
	require.True(t, ok)
	assert.Len(t, locs, appenders)
}
