package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (e.g., ErrUserNotFound, ErrThemeNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second progress stack for the same user
	// and stack pair).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrStackNotFound indicates that the requested stack does not exist in the store.
	ErrStackNotFound = fmt.Errorf("%w: stack", ErrNotFound)

	// ErrThemeNotFound indicates that the requested theme does not exist in
	// the store, or does not belong to the stack it was looked up under.
	ErrThemeNotFound = fmt.Errorf("%w: theme", ErrNotFound)

	// ErrProgressStackNotFound indicates that the requested progress stack
	// does not exist in the store.
	ErrProgressStackNotFound = fmt.Errorf("%w: progress stack", ErrNotFound)

	// ErrProgressThemeNotFound indicates that the requested progress theme
	// does not exist in the store.
	ErrProgressThemeNotFound = fmt.Errorf("%w: progress theme", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrUsernameExists indicates that a user with the given username already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrStackNameExists indicates that a stack with the given name already
	// exists. Stack names are compared case-insensitively.
	ErrStackNameExists = fmt.Errorf("%w: stack name", ErrDuplicate)

	// ErrThemeExists indicates that a theme with the same name and level
	// already exists in the stack.
	ErrThemeExists = fmt.Errorf("%w: theme", ErrDuplicate)

	// ErrProgressStackExists indicates that a progress stack already links
	// this user and stack.
	ErrProgressStackExists = fmt.Errorf("%w: progress stack", ErrDuplicate)

	// ErrProgressThemeExists indicates that a progress theme already links
	// this theme and progress stack.
	ErrProgressThemeExists = fmt.Errorf("%w: progress theme", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
