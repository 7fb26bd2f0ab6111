package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackly/stackly-api/internal/domain"
)

// StackStore defines the interface for stack data persistence.
type StackStore interface {
	// Create saves a new stack to the store.
	// Returns ErrStackNameExists if a stack with the same name already
	// exists (names are compared case-insensitively).
	Create(ctx context.Context, stack *domain.Stack) error

	// GetByID retrieves a stack by its unique ID.
	// Returns ErrStackNotFound if the stack does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Stack, error)

	// GetByName retrieves a stack by name, compared case-insensitively.
	// Returns ErrStackNotFound if the stack does not exist.
	GetByName(ctx context.Context, name string) (*domain.Stack, error)

	// GetForUpdate retrieves a stack by ID with a row-level lock
	// (SELECT ... FOR UPDATE). Must be called within a transaction; theme
	// mutations lock the stack row so concurrent point-delta updates
	// serialize.
	// Returns ErrStackNotFound if the stack does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Stack, error)

	// List retrieves stacks with optional pagination and ordering.
	// A limit of 0 means no limit. orderBy must be one of the allowed
	// column names; an empty orderBy leaves the order unspecified.
	List(ctx context.Context, opts ListOptions) ([]*domain.Stack, error)

	// Count returns the total number of stacks.
	Count(ctx context.Context) (int, error)

	// Update modifies an existing stack's details.
	// Returns ErrStackNotFound if the stack does not exist.
	// Returns ErrStackNameExists on a name uniqueness violation.
	Update(ctx context.Context, stack *domain.Stack) error

	// UpdatePoints sets the stack's aggregate points total.
	// Returns ErrStackNotFound if the stack does not exist.
	UpdatePoints(ctx context.Context, id uuid.UUID, points int) error

	// Delete removes a stack from the store by its ID. Themes belonging to
	// the stack are removed by the store's cascade rules.
	// Returns ErrStackNotFound if the stack does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new StackStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StackStore
}

// ListOptions carries pagination and ordering parameters for list queries.
// Zero values mean "no pagination" and "no explicit ordering".
type ListOptions struct {
	Limit   int
	Offset  int
	OrderBy string // column name, validated by the implementation
	Desc    bool
}
