package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them onto
// HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer should map this to HTTP 404 so the
	// resource's existence is not revealed.
	ErrNotOwned = errors.New("resource is owned by another user")
)
