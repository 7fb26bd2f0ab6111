package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackly/stackly-api/internal/domain"
)

// ThemeStore defines the interface for theme data persistence.
type ThemeStore interface {
	// Create saves a new theme to the store.
	// Returns ErrThemeExists if a theme with the same name and level already
	// exists in the stack.
	Create(ctx context.Context, theme *domain.Theme) error

	// GetByID retrieves a theme by its unique ID.
	// Returns ErrThemeNotFound if the theme does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Theme, error)

	// GetByIDInStack retrieves a theme by ID constrained to the given stack.
	// Returns ErrThemeNotFound if the theme does not exist or belongs to a
	// different stack.
	GetByIDInStack(ctx context.Context, id, stackID uuid.UUID) (*domain.Theme, error)

	// ListByStack retrieves all themes belonging to a stack, ordered by
	// their display order.
	ListByStack(ctx context.Context, stackID uuid.UUID) ([]*domain.Theme, error)

	// List retrieves themes with optional pagination and ordering.
	List(ctx context.Context, opts ListOptions) ([]*domain.Theme, error)

	// Count returns the total number of themes.
	Count(ctx context.Context) (int, error)

	// MaxOrderInStack returns the highest display order among the stack's
	// themes, or 0 if the stack has no themes.
	MaxOrderInStack(ctx context.Context, stackID uuid.UUID) (int, error)

	// Update modifies an existing theme's details.
	// Returns ErrThemeNotFound if the theme does not exist.
	// Returns ErrThemeExists on a (name, level, stack) uniqueness violation.
	Update(ctx context.Context, theme *domain.Theme) error

	// Delete removes a theme from the store by its ID.
	// Returns ErrThemeNotFound if the theme does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ThemeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ThemeStore
}
