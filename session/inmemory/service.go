//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory session registry.
package inmemory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jswortz/obelisk/session"
)

// Service is an in-memory session registry. Sessions live for the process
// lifetime; there is no eviction policy.
type Service struct {
	sessions map[string]*session.Session
	mutex    sync.RWMutex
}

// NewService creates a new in-memory session service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]*session.Session),
	}
}

// CreateSession creates and registers a session. An empty sessionID gets a
// generated one.
func (s *Service) CreateSession(appName, userID, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	sess, err := session.New(appName, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := sessionKey(appName, userID, sessionID)
	if _, exists := s.sessions[key]; exists {
		return nil, fmt.Errorf("session %q already exists", sessionID)
	}
	s.sessions[key] = sess
	return sess, nil
}

// GetSession returns the registered session, or nil if unknown.
func (s *Service) GetSession(appName, userID, sessionID string) *session.Session {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.sessions[sessionKey(appName, userID, sessionID)]
}

// DeleteSession removes a session. Removing an unknown session is a no-op.
func (s *Service) DeleteSession(appName, userID, sessionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.sessions, sessionKey(appName, userID, sessionID))
}

func sessionKey(appName, userID, sessionID string) string {
	return fmt.Sprintf("%s/%s/%s", appName, userID, sessionID)
}
