package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackly/stackly-api/internal/domain"
)

// ProgressStackStore defines the interface for progress stack persistence.
type ProgressStackStore interface {
	// Create saves a new progress stack. Uniqueness of the (user, stack)
	// pair is enforced by the store; a duplicate insert, including one
	// racing a concurrent create, returns ErrProgressStackExists.
	Create(ctx context.Context, ps *domain.ProgressStack) error

	// GetByID retrieves a progress stack by its unique ID.
	// Returns ErrProgressStackNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressStack, error)

	// GetForUpdate retrieves a progress stack by ID with a row-level lock
	// (SELECT ... FOR UPDATE). Must be called within a transaction.
	// Returns ErrProgressStackNotFound if it does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressStack, error)

	// ListByUser retrieves all progress stacks belonging to a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ProgressStack, error)

	// UpdateProgress sets the progress stack's accumulated progress.
	// Returns ErrProgressStackNotFound if it does not exist.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error

	// Delete removes a progress stack by its ID. Progress themes nested
	// under it are removed by the store's cascade rules.
	// Returns ErrProgressStackNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProgressStackStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStackStore
}

// ProgressThemeStore defines the interface for progress theme persistence.
type ProgressThemeStore interface {
	// Create saves a new progress theme. Uniqueness of the
	// (progress stack, theme) pair is enforced by the store; a duplicate
	// insert returns ErrProgressThemeExists.
	Create(ctx context.Context, pt *domain.ProgressTheme) error

	// GetByID retrieves a progress theme by its unique ID.
	// Returns ErrProgressThemeNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressTheme, error)

	// GetForUpdate retrieves a progress theme by ID with a row-level lock
	// (SELECT ... FOR UPDATE). Must be called within a transaction.
	// Returns ErrProgressThemeNotFound if it does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressTheme, error)

	// GetByLink retrieves the progress theme linking the given theme and
	// progress stack, if any.
	// Returns ErrProgressThemeNotFound if no link exists.
	GetByLink(ctx context.Context, themeID, progressStackID uuid.UUID) (*domain.ProgressTheme, error)

	// ListByProgressStack retrieves all progress themes nested under a
	// progress stack.
	ListByProgressStack(ctx context.Context, progressStackID uuid.UUID) ([]*domain.ProgressTheme, error)

	// UpdateProgress sets the progress theme's accumulated progress.
	// Returns ErrProgressThemeNotFound if it does not exist.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error

	// Delete removes a progress theme by its ID.
	// Returns ErrProgressThemeNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProgressThemeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressThemeStore
}
