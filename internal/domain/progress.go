package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for progress records
var (
	ErrEmptyProgressStackID = errors.New("progress stack ID cannot be empty")
	ErrEmptyProgressThemeID = errors.New("progress theme ID cannot be empty")
	ErrEmptyProgressUserID  = errors.New("progress user ID cannot be empty")
)

// ProgressStack records a user's engagement with a stack. There is exactly
// one per (user, stack) pair; Progress accumulates the point deltas recorded
// against the progress themes nested under it.
type ProgressStack struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	StackID   uuid.UUID `json:"stack_id"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProgressStack creates a progress record for a (user, stack) pair with
// zero progress. Uniqueness of the pair is enforced by the store.
func NewProgressStack(userID, stackID uuid.UUID) (*ProgressStack, error) {
	now := time.Now().UTC()
	ps := &ProgressStack{
		ID:        uuid.New(),
		UserID:    userID,
		StackID:   stackID,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}

	return ps, nil
}

// Validate checks if the ProgressStack has valid data.
func (ps *ProgressStack) Validate() error {
	if ps.ID == uuid.Nil {
		return ErrEmptyProgressStackID
	}

	if ps.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if ps.StackID == uuid.Nil {
		return ErrEmptyStackID
	}

	return nil
}

// ProgressTheme records a user's engagement with a theme, nested under a
// ProgressStack. There is exactly one per (progress stack, theme) pair, and
// the theme must belong to the same stack as the progress stack.
type ProgressTheme struct {
	ID              uuid.UUID `json:"id"`
	ProgressStackID uuid.UUID `json:"progress_stack_id"`
	ThemeID         uuid.UUID `json:"theme_id"`
	Progress        int       `json:"progress"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProgressTheme creates a progress record for a (progress stack, theme)
// pair with zero progress. Uniqueness of the pair is enforced by the store.
func NewProgressTheme(progressStackID, themeID uuid.UUID) (*ProgressTheme, error) {
	now := time.Now().UTC()
	pt := &ProgressTheme{
		ID:              uuid.New(),
		ProgressStackID: progressStackID,
		ThemeID:         themeID,
		Progress:        0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := pt.Validate(); err != nil {
		return nil, err
	}

	return pt, nil
}

// Validate checks if the ProgressTheme has valid data.
func (pt *ProgressTheme) Validate() error {
	if pt.ID == uuid.Nil {
		return ErrEmptyProgressThemeID
	}

	if pt.ProgressStackID == uuid.Nil {
		return ErrEmptyProgressStackID
	}

	if pt.ThemeID == uuid.Nil {
		return ErrEmptyThemeID
	}

	return nil
}
