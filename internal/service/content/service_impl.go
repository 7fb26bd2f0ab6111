package content

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/platform/logger"
	"github.com/stackly/stackly-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	stacks store.StackStore
	themes store.ThemeStore
	tx     store.TxRunner
	logger *slog.Logger
}

// NewService creates a new content Service implementation.
func NewService(
	stacks store.StackStore,
	themes store.ThemeStore,
	tx store.TxRunner,
	log *slog.Logger,
) Service {
	if stacks == nil {
		panic("stacks cannot be nil")
	}
	if themes == nil {
		panic("themes cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		stacks: stacks,
		themes: themes,
		tx:     tx,
		logger: log.With(slog.String("component", "content_service")),
	}
}

// CreateStack implements Service.CreateStack.
func (s *serviceImpl) CreateStack(ctx context.Context, name, description string) (*domain.Stack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stack, err := domain.NewStack(name, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if err := s.stacks.Create(ctx, stack); err != nil {
		if store.IsDuplicateError(err) {
			return nil, err
		}
		log.Error("failed to create stack",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, fmt.Errorf("failed to create stack: %w", err)
	}

	log.Debug("created stack",
		slog.String("stack_id", stack.ID.String()),
		slog.String("name", stack.Name))
	return stack, nil
}

// GetStack implements Service.GetStack.
func (s *serviceImpl) GetStack(ctx context.Context, id uuid.UUID) (*domain.Stack, []*domain.Theme, error) {
	stack, err := s.stacks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	themes, err := s.themes.ListByStack(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list stack themes: %w", err)
	}

	return stack, themes, nil
}

// ListStacks implements Service.ListStacks.
func (s *serviceImpl) ListStacks(ctx context.Context, opts store.ListOptions) ([]*domain.Stack, int, error) {
	stacks, err := s.stacks.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stacks: %w", err)
	}

	total, err := s.stacks.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stacks: %w", err)
	}

	return stacks, total, nil
}

// UpdateStack implements Service.UpdateStack.
func (s *serviceImpl) UpdateStack(ctx context.Context, stack *domain.Stack) error {
	if err := stack.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return s.stacks.Update(ctx, stack)
}

// DeleteStack implements Service.DeleteStack.
func (s *serviceImpl) DeleteStack(ctx context.Context, id uuid.UUID) error {
	return s.stacks.Delete(ctx, id)
}

// CreateTheme implements Service.CreateTheme. The stack row is locked for
// the duration of the transaction so concurrent theme mutations on the
// same stack serialize and the delta-maintained point total stays in step
// with the theme rows.
func (s *serviceImpl) CreateTheme(ctx context.Context, input CreateThemeInput) (*domain.Theme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var created *domain.Theme
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stacks := s.stacks.WithTx(tx)
		themes := s.themes.WithTx(tx)

		stack, err := stacks.GetForUpdate(ctx, input.StackID)
		if err != nil {
			return err
		}

		order := input.Order
		if order == 0 {
			maxOrder, err := themes.MaxOrderInStack(ctx, input.StackID)
			if err != nil {
				return fmt.Errorf("failed to determine theme order: %w", err)
			}
			order = maxOrder + 1
		}

		theme, err := domain.NewTheme(input.StackID, input.Name, input.Level, input.Points, order)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		theme.Description = input.Description

		if err := themes.Create(ctx, theme); err != nil {
			return err
		}

		// Delta update, not a recompute from the theme rows.
		if err := stacks.UpdatePoints(ctx, stack.ID, stack.Points+theme.Points); err != nil {
			return fmt.Errorf("failed to update stack points: %w", err)
		}

		created = theme
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) || store.IsDuplicateError(err) {
			return nil, err
		}
		log.Error("failed to create theme",
			slog.String("error", err.Error()),
			slog.String("stack_id", input.StackID.String()),
			slog.String("name", input.Name))
		return nil, fmt.Errorf("failed to create theme: %w", err)
	}

	log.Debug("created theme",
		slog.String("theme_id", created.ID.String()),
		slog.String("stack_id", created.StackID.String()),
		slog.Int("points", created.Points),
		slog.Int("order", created.Order))
	return created, nil
}

// GetTheme implements Service.GetTheme.
func (s *serviceImpl) GetTheme(ctx context.Context, id uuid.UUID) (*domain.Theme, error) {
	return s.themes.GetByID(ctx, id)
}

// ListThemes implements Service.ListThemes.
func (s *serviceImpl) ListThemes(ctx context.Context, opts store.ListOptions) ([]*domain.Theme, int, error) {
	themes, err := s.themes.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list themes: %w", err)
	}

	total, err := s.themes.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count themes: %w", err)
	}

	return themes, total, nil
}

// UpdateTheme implements Service.UpdateTheme.
func (s *serviceImpl) UpdateTheme(ctx context.Context, id uuid.UUID, input UpdateThemeInput) error {
	theme, err := s.themes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if input.Name != nil {
		theme.Name = *input.Name
	}
	if input.Level != nil {
		theme.Level = *input.Level
	}
	if input.Description != nil {
		theme.Description = *input.Description
	}
	if input.Order != nil {
		theme.Order = *input.Order
	}

	if err := theme.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	return s.themes.Update(ctx, theme)
}

// RemoveTheme implements Service.RemoveTheme. Mirrors CreateTheme: the
// stack row is locked, the theme's points are subtracted from the stack
// total, and the theme row is deleted, all in one transaction.
func (s *serviceImpl) RemoveTheme(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stacks := s.stacks.WithTx(tx)
		themes := s.themes.WithTx(tx)

		theme, err := themes.GetByID(ctx, id)
		if err != nil {
			return err
		}

		stack, err := stacks.GetForUpdate(ctx, theme.StackID)
		if err != nil {
			return err
		}

		if err := stacks.UpdatePoints(ctx, stack.ID, stack.Points-theme.Points); err != nil {
			return fmt.Errorf("failed to update stack points: %w", err)
		}

		return themes.Delete(ctx, id)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to remove theme",
			slog.String("error", err.Error()),
			slog.String("theme_id", id.String()))
		return fmt.Errorf("failed to remove theme: %w", err)
	}

	log.Debug("removed theme", slog.String("theme_id", id.String()))
	return nil
}
