package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidLevel is returned when a theme level is not a known level.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrUnauthorized is returned when an operation is not permitted
	// for the caller's identity.
	ErrUnauthorized = errors.New("unauthorized operation")
)
