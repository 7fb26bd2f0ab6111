package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Stack
var (
	ErrEmptyStackID   = errors.New("stack ID cannot be empty")
	ErrEmptyStackName = errors.New("stack name cannot be empty")
	ErrNegativePoints = errors.New("points cannot be negative")
)

// Stack is a top-level subject area containing themes. Its name is unique
// across the platform, compared case-insensitively.
//
// Points is an aggregate: it equals the sum of the points of the themes
// belonging to the stack, and is maintained by delta updates when themes
// are created or removed.
type Stack struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStack creates a new Stack with zero points.
func NewStack(name, description string) (*Stack, error) {
	now := time.Now().UTC()
	stack := &Stack{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Points:      0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := stack.Validate(); err != nil {
		return nil, err
	}

	return stack, nil
}

// Validate checks if the Stack has valid data.
func (s *Stack) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyStackID
	}

	if s.Name == "" {
		return ErrEmptyStackName
	}

	return nil
}
