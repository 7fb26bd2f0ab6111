package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, unparsable, or its
	// signature doesn't match.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a structurally valid token whose expiry has
	// passed. Token validation itself reports expiry via Claims.IsExpired;
	// this error is raised by callers that decide to reject.
	ErrExpiredToken = errors.New("token expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrUnknownIdentity indicates the token resolved to a user that no
	// longer exists.
	ErrUnknownIdentity = errors.New("token identity is unknown")
)
