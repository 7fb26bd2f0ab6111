package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level grades the difficulty of a theme.
type Level string

// Known theme levels.
const (
	LevelDebutant     Level = "DEBUTANT"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// Valid reports whether the level is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelDebutant, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Common validation errors for Theme
var (
	ErrEmptyThemeID      = errors.New("theme ID cannot be empty")
	ErrEmptyThemeName    = errors.New("theme name cannot be empty")
	ErrEmptyThemeStackID = errors.New("theme stack ID cannot be empty")
	ErrInvalidOrder      = errors.New("theme order must be strictly positive")
)

// Theme is a gradable unit of content within a stack, worth a fixed point
// value. Themes are unique per (name, level, stack), and carry a strictly
// positive display order within their stack.
type Theme struct {
	ID          uuid.UUID `json:"id"`
	StackID     uuid.UUID `json:"stack_id"`
	Name        string    `json:"name"`
	Level       Level     `json:"level"`
	Description string    `json:"description,omitempty"`
	Points      int       `json:"points"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTheme creates a new Theme for the given stack. The name is normalized
// to lower case. An order of 0 means "unassigned"; the content service
// assigns max(existing orders in stack)+1 before the theme is stored.
func NewTheme(stackID uuid.UUID, name string, level Level, points, order int) (*Theme, error) {
	now := time.Now().UTC()
	theme := &Theme{
		ID:        uuid.New(),
		StackID:   stackID,
		Name:      strings.ToLower(name),
		Level:     level,
		Points:    points,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := theme.Validate(); err != nil {
		return nil, err
	}

	return theme, nil
}

// Validate checks if the Theme has valid data. A zero order is tolerated
// here because it signals "assign on create".
func (t *Theme) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyThemeID
	}

	if t.StackID == uuid.Nil {
		return ErrEmptyThemeStackID
	}

	if t.Name == "" {
		return ErrEmptyThemeName
	}

	if !t.Level.Valid() {
		return ErrInvalidLevel
	}

	if t.Points < 0 {
		return ErrNegativePoints
	}

	if t.Order < 0 {
		return ErrInvalidOrder
	}

	return nil
}
