//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetSession(t *testing.T) {
	service := NewService()

	sess, err := service.CreateSession("obelisk", "user-1", "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", sess.ID)

	got := service.GetSession("obelisk", "user-1", "session-1")
	assert.Same(t, sess, got)

	assert.Nil(t, service.GetSession("obelisk", "user-1", "other"))
}

func TestCreateSessionGeneratesID(t *testing.T) {
	service := NewService()

	sess, err := service.CreateSession("obelisk", "user-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
}

func TestCreateSessionDuplicate(t *testing.T) {
	service := NewService()

	_, err := service.CreateSession("obelisk", "user-1", "session-1")
	require.NoError(t, err)

	_, err = service.CreateSession("obelisk", "user-1", "session-1")
	assert.Error(t, err)
}

func TestDeleteSession(t *testing.T) {
	service := NewService()

	_, err := service.CreateSession("obelisk", "user-1", "session-1")
	require.NoError(t, err)

	service.DeleteSession("obelisk", "user-1", "session-1")
	assert.Nil(t, service.GetSession("obelisk", "user-1", "session-1"))

	// Idempotent.
	service.DeleteSession("obelisk", "user-1", "session-1")
}
