package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/service/auth"
	"github.com/stackly/stackly-api/internal/service/policy"
	"github.com/stackly/stackly-api/internal/service/progress"
	"github.com/stackly/stackly-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// Role and ownership failures map to 401, not 403: the API treats "you are
// not allowed to do this" and "you are not authenticated as someone who
// can" identically.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrUnknownIdentity),
		errors.Is(err, policy.ErrUnauthenticated),
		errors.Is(err, policy.ErrForbidden),
		errors.Is(err, progress.ErrNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidLevel):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrUnknownIdentity):
		return "Token is invalid"

	case errors.Is(err, policy.ErrUnauthenticated):
		return "Authentication required"

	case errors.Is(err, policy.ErrForbidden):
		return "You don't have privileges for this action"

	case errors.Is(err, progress.ErrNotOwned):
		return "You have no privileges to perform this action"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrStackNotFound):
		return "Stack not found"

	case errors.Is(err, store.ErrThemeNotFound):
		return "Theme not found"

	case errors.Is(err, store.ErrProgressStackNotFound):
		// The pre-existence contract has its own wording when the theme
		// link is attempted before the stack link exists.
		if strings.Contains(err.Error(), "add the stack") {
			return "Add the stack before adding a theme"
		}
		return "Progress stack not found"

	case errors.Is(err, store.ErrProgressThemeNotFound):
		return "Progress theme not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrStackNameExists):
		return "Stack name already exists"

	case errors.Is(err, store.ErrThemeExists):
		return "Theme already exists in this stack"

	case errors.Is(err, store.ErrProgressStackExists):
		return "Stack is already being tracked"

	case errors.Is(err, store.ErrProgressThemeExists):
		return "Theme is already being tracked"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	default:
		return "An unexpected error occurred"
	}
}
