// Package progress implements the progress-aggregation core: creating the
// links between users, stacks, and themes, and applying point deltas
// atomically across the ProgressTheme -> ProgressStack -> User hierarchy.
package progress

import (
	"context"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
)

// Service creates progress links and records point deltas. All mutations
// check ownership: a caller may only touch their own progress records
// unless they are an administrator.
type Service interface {
	// CreateProgressStack links a user to a stack, with zero progress.
	//
	// Returns:
	//   - the new progress stack's ID on success
	//   - ErrNotOwned if the caller is neither the user nor an admin
	//   - store.ErrUserNotFound / store.ErrStackNotFound if either side of
	//     the link does not exist
	//   - store.ErrProgressStackExists if the pair is already linked
	CreateProgressStack(ctx context.Context, userID, stackID uuid.UUID, caller domain.Identity) (uuid.UUID, error)

	// CreateProgressTheme links a theme to an existing progress stack, with
	// zero progress. The theme must belong to the same stack as the
	// progress stack.
	//
	// Returns:
	//   - store.ErrProgressStackNotFound if the progress stack is absent
	//     (the stack must be added before its themes)
	//   - ErrNotOwned if the caller neither owns the progress stack nor is
	//     an admin
	//   - store.ErrProgressThemeExists if the pair is already linked
	//   - store.ErrThemeNotFound if the theme is absent or belongs to a
	//     different stack
	CreateProgressTheme(ctx context.Context, themeID, progressStackID uuid.UUID, caller domain.Identity) error

	// RecordProgress applies a point delta to a progress theme, its parent
	// progress stack, and the owning user's total, in a single transaction:
	// either all three rows commit or none do. The delta may be any
	// integer; negative deltas are accepted and totals are not clamped.
	//
	// Returns store.ErrProgressThemeNotFound, store.ErrProgressStackNotFound,
	// or store.ErrUserNotFound if any row in the chain is absent; in that
	// case nothing is written.
	RecordProgress(ctx context.Context, progressThemeID uuid.UUID, pointsDelta int) error

	// ListProgressStacks retrieves all progress stacks belonging to a user.
	ListProgressStacks(ctx context.Context, userID uuid.UUID) ([]*domain.ProgressStack, error)

	// ListProgressThemes retrieves all progress themes nested under a
	// progress stack.
	ListProgressThemes(ctx context.Context, progressStackID uuid.UUID) ([]*domain.ProgressTheme, error)
}
