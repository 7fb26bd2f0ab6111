package progress

import (
	"context"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/store"
)

// OwnershipResolver provides the read-only lookups the progress service
// uses for authorization and referential checks. It has no mutation
// capability; absence surfaces as the store's not-found sentinels.
type OwnershipResolver interface {
	// FindUser retrieves a user by ID.
	// Returns store.ErrUserNotFound if the user does not exist.
	FindUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindStack retrieves a stack by ID.
	// Returns store.ErrStackNotFound if the stack does not exist.
	FindStack(ctx context.Context, id uuid.UUID) (*domain.Stack, error)

	// FindTheme retrieves a theme by ID, constrained to the given stack.
	// Returns store.ErrThemeNotFound if the theme does not exist or belongs
	// to a different stack.
	FindTheme(ctx context.Context, id, stackID uuid.UUID) (*domain.Theme, error)

	// FindProgressStack retrieves a progress stack by ID.
	// Returns store.ErrProgressStackNotFound if it does not exist.
	FindProgressStack(ctx context.Context, id uuid.UUID) (*domain.ProgressStack, error)
}

// storeResolver implements OwnershipResolver on top of the store interfaces.
type storeResolver struct {
	users          store.UserStore
	stacks         store.StackStore
	themes         store.ThemeStore
	progressStacks store.ProgressStackStore
}

// NewOwnershipResolver creates an OwnershipResolver backed by the given stores.
func NewOwnershipResolver(
	users store.UserStore,
	stacks store.StackStore,
	themes store.ThemeStore,
	progressStacks store.ProgressStackStore,
) OwnershipResolver {
	return &storeResolver{
		users:          users,
		stacks:         stacks,
		themes:         themes,
		progressStacks: progressStacks,
	}
}

func (r *storeResolver) FindUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.users.GetByID(ctx, id)
}

func (r *storeResolver) FindStack(ctx context.Context, id uuid.UUID) (*domain.Stack, error) {
	return r.stacks.GetByID(ctx, id)
}

func (r *storeResolver) FindTheme(ctx context.Context, id, stackID uuid.UUID) (*domain.Theme, error) {
	return r.themes.GetByIDInStack(ctx, id, stackID)
}

func (r *storeResolver) FindProgressStack(ctx context.Context, id uuid.UUID) (*domain.ProgressStack, error) {
	return r.progressStacks.GetByID(ctx, id)
}
