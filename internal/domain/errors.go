package domain

import "errors"

// Request errors.
var (
	ErrInvalidInput = errors.New("invalid input")
)

// Authentication and authorization errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient privileges")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Record errors.
var (
	ErrNotFound = errors.New("record not found")
)

// External collaborator errors.
var (
	ErrProviderUnavailable  = errors.New("identity provider unavailable")
	ErrDirectoryUnavailable = errors.New("directory store unavailable")
)

// Token errors.
var (
	ErrTokenGeneration = errors.New("token generation failed")
)
