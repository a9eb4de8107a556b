package client

import "errors"

// Sentinel errors of the remote boundary. Every transport, auth or server
// failure maps onto one of these; the sync layer matches with errors.Is.
var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)
