// Package common defines shared constants and sentinel errors used across
// snapdiary components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound reports a lookup miss within the local data set.
	// Transport-level errors live in the client package.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized reports a failed credential check.
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrMissingID     = errors.New("entry id is required")
	ErrInvalidMood   = errors.New("unknown mood")
	ErrInvalidAction = errors.New("malformed pending action")
	ErrUnknownAction = errors.New("unknown pending action type")

	// Offline-auth errors.
	ErrLocalAuthNotAvailable = errors.New("local auth data unavailable")
)
