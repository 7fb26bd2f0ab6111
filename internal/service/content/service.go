// Package content manages the stack and theme catalog, including the
// aggregate point totals stacks carry for their themes.
package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/store"
)

// CreateThemeInput carries the data for a new theme. An Order of 0 means
// "unspecified": the service assigns max(existing orders in stack)+1.
type CreateThemeInput struct {
	StackID     uuid.UUID
	Name        string
	Level       domain.Level
	Description string
	Points      int
	Order       int
}

// UpdateThemeInput carries the mutable theme fields. Nil pointers leave the
// corresponding field unchanged.
type UpdateThemeInput struct {
	Name        *string
	Level       *domain.Level
	Description *string
	Order       *int
}

// Service manages stacks and themes. Theme creation and removal maintain
// the owning stack's point total by delta updates; both run inside a
// transaction that locks the stack row, so concurrent theme mutations on
// the same stack serialize.
type Service interface {
	// CreateStack creates a new stack with zero points.
	// Returns store.ErrStackNameExists if the name is taken (compared
	// case-insensitively).
	CreateStack(ctx context.Context, name, description string) (*domain.Stack, error)

	// GetStack retrieves a stack with its themes.
	// Returns store.ErrStackNotFound if it does not exist.
	GetStack(ctx context.Context, id uuid.UUID) (*domain.Stack, []*domain.Theme, error)

	// ListStacks retrieves stacks with optional pagination and ordering.
	ListStacks(ctx context.Context, opts store.ListOptions) ([]*domain.Stack, int, error)

	// UpdateStack modifies a stack's name and description.
	// Returns store.ErrStackNotFound if it does not exist, or
	// store.ErrStackNameExists on a name collision.
	UpdateStack(ctx context.Context, stack *domain.Stack) error

	// DeleteStack removes a stack and, by cascade, its themes.
	// Returns store.ErrStackNotFound if it does not exist.
	DeleteStack(ctx context.Context, id uuid.UUID) error

	// CreateTheme creates a theme in a stack and adds the theme's points to
	// the stack's total as a delta update, atomically.
	// Returns store.ErrStackNotFound if the stack is absent and
	// store.ErrThemeExists on a (name, level, stack) collision.
	CreateTheme(ctx context.Context, input CreateThemeInput) (*domain.Theme, error)

	// GetTheme retrieves a theme by ID.
	// Returns store.ErrThemeNotFound if it does not exist.
	GetTheme(ctx context.Context, id uuid.UUID) (*domain.Theme, error)

	// ListThemes retrieves themes with optional pagination and ordering.
	ListThemes(ctx context.Context, opts store.ListOptions) ([]*domain.Theme, int, error)

	// UpdateTheme modifies a theme's metadata. Point values are fixed at
	// creation; changing them would desynchronize the stack total.
	// Returns store.ErrThemeNotFound if it does not exist.
	UpdateTheme(ctx context.Context, id uuid.UUID, input UpdateThemeInput) error

	// RemoveTheme subtracts the theme's points from its stack's total and
	// deletes the theme, atomically.
	// Returns store.ErrThemeNotFound if it does not exist.
	RemoveTheme(ctx context.Context, id uuid.UUID) error
}
