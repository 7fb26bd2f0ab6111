package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackly/stackly-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password.
	// Returns ErrEmailExists or ErrUsernameExists on uniqueness violations.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (compared lower-cased).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetForUpdate retrieves a user by ID with a row-level lock
	// (SELECT ... FOR UPDATE). Must be called within a transaction; used when
	// the caller is about to update the row and concurrent updates must
	// serialize.
	// Returns ErrUserNotFound if the user does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List retrieves users with optional pagination. A limit of 0 means no limit.
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// Update modifies an existing user's details.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists or ErrUsernameExists on uniqueness violations.
	Update(ctx context.Context, user *domain.User) error

	// UpdateTotalPoints sets the user's aggregate point total.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateTotalPoints(ctx context.Context, id uuid.UUID, totalPoints int) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
