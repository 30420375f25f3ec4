//
// Copyright (C) 2025 The obelisk authors.  All rights reserved.
//
// obelisk is licensed under the Apache License Version 2.0.
//
//

// Package artifact provides object-name helpers shared by the durable
// artifact service implementations.
//
// The object name format depends on whether the key has a user namespace:
//   - For keys with user namespace (starting with "user:"):
//     {app_name}/{user_id}/user/{key}/{version}
//   - For regular session-scoped keys:
//     {app_name}/{user_id}/{session_id}/{key}/{version}
package artifact

import (
	"fmt"
	"strings"

	"github.com/jswortz/obelisk/artifact"
)

// UserNamespacePrefix marks keys shared across sessions of one user.
const UserNamespacePrefix = "user:"

// HasUserNamespace checks if the key has a user namespace.
func HasUserNamespace(key string) bool {
	return strings.HasPrefix(key, UserNamespacePrefix)
}

// BuildObjectName constructs the full object name for one artifact version.
func BuildObjectName(sessionInfo artifact.SessionInfo, key string, version int) string {
	return fmt.Sprintf("%s%d", BuildObjectNamePrefix(sessionInfo, key), version)
}

// BuildObjectNamePrefix constructs the object-name prefix covering all
// versions of one artifact key.
func BuildObjectNamePrefix(sessionInfo artifact.SessionInfo, key string) string {
	if HasUserNamespace(key) {
		return fmt.Sprintf("%s/%s/user/%s/", sessionInfo.AppName, sessionInfo.UserID, key)
	}
	return fmt.Sprintf("%s/%s/%s/%s/", sessionInfo.AppName, sessionInfo.UserID, sessionInfo.SessionID, key)
}

// BuildSessionPrefix constructs the prefix covering all session-scoped
// artifacts of one session.
func BuildSessionPrefix(sessionInfo artifact.SessionInfo) string {
	return fmt.Sprintf("%s/%s/%s/", sessionInfo.AppName, sessionInfo.UserID, sessionInfo.SessionID)
}

// BuildUserNamespacePrefix constructs the prefix covering all
// user-namespaced artifacts of one user.
func BuildUserNamespacePrefix(sessionInfo artifact.SessionInfo) string {
	return fmt.Sprintf("%s/%s/user/", sessionInfo.AppName, sessionInfo.UserID)
}
