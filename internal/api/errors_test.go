package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackly/stackly-api/internal/service/auth"
	"github.com/stackly/stackly-api/internal/service/policy"
	"github.com/stackly/stackly-api/internal/service/progress"
	"github.com/stackly/stackly-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"unauthenticated", policy.ErrUnauthenticated, http.StatusUnauthorized},
		{"role mismatch is 401 not 403", policy.ErrForbidden, http.StatusUnauthorized},
		{"not owned is 401 not 403", progress.ErrNotOwned, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrThemeNotFound), http.StatusNotFound},
		{"duplicate email", store.ErrEmailExists, http.StatusConflict},
		{"duplicate progress stack", store.ErrProgressStackExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"expired token", auth.ErrExpiredToken, "Token has expired"},
		{"invalid token", auth.ErrInvalidToken, "Token is invalid"},
		{"not owned", progress.ErrNotOwned, "You have no privileges to perform this action"},
		{
			"stack must be tracked first",
			fmt.Errorf("%w: add the stack before adding a theme", store.ErrProgressStackNotFound),
			"Add the stack before adding a theme",
		},
		{"plain progress stack miss", store.ErrProgressStackNotFound, "Progress stack not found"},
		{"duplicate username", store.ErrUsernameExists, "Username already exists"},
		{"internal detail hidden", errors.New("pq: connection refused"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}
