package progress

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
	resolver       OwnershipResolver
	users          store.UserStore
	progressStacks store.ProgressStackStore
	progressThemes store.ProgressThemeStore
	tx             store.TxRunner
	logger         *slog.Logger
}

// NewService creates a new progress Service implementation.
func NewService(
	resolver OwnershipResolver,
	users store.UserStore,
	progressStacks store.ProgressStackStore,
	progressThemes store.ProgressThemeStore,
	tx store.TxRunner,
	log *slog.Logger,
) Service {
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if users == nil {
		panic("users cannot be nil")
	}
	if progressStacks == nil {
		panic("progressStacks cannot be nil")
	}
	if progressThemes == nil {
		panic("progressThemes cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		resolver:       resolver,
		users:          users,
		progressStacks: progressStacks,
		progressThemes: progressThemes,
		tx:             tx,
		logger:         log.With(slog.String("component", "progress_service")),
	}
}

// CreateProgressStack implements Service.CreateProgressStack.
func (s *serviceImpl) CreateProgressStack(
	ctx context.Context,
	userID, stackID uuid.UUID,
	caller domain.Identity,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Only the user themselves or an admin may create the link.
	if caller.ID != userID && !caller.IsAdmin() {
		log.Warn("caller may not create progress stack for another user",
			slog.String("caller_id", caller.ID.String()),
			slog.String("user_id", userID.String()))
		return uuid.Nil, ErrNotOwned
	}

	if _, err := s.resolver.FindUser(ctx, userID); err != nil {
		if store.IsNotFoundError(err) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if _, err := s.resolver.FindStack(ctx, stackID); err != nil {
		if store.IsNotFoundError(err) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("failed to resolve stack: %w", err)
	}

	ps, err := domain.NewProgressStack(userID, stackID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	// The (user, stack) uniqueness constraint is the sole guard against a
	// duplicate link racing a concurrent create; the store surfaces the
	// violation as ErrProgressStackExists.
	if err := s.progressStacks.Create(ctx, ps); err != nil {
		if store.IsDuplicateError(err) {
			return uuid.Nil, err
		}
		log.Error("failed to create progress stack",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("stack_id", stackID.String()))
		return uuid.Nil, fmt.Errorf("failed to create progress stack: %w", err)
	}

	log.Debug("created progress stack",
		slog.String("progress_stack_id", ps.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("stack_id", stackID.String()))
	return ps.ID, nil
}

// CreateProgressTheme implements Service.CreateProgressTheme.
func (s *serviceImpl) CreateProgressTheme(
	ctx context.Context,
	themeID, progressStackID uuid.UUID,
	caller domain.Identity,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ps, err := s.resolver.FindProgressStack(ctx, progressStackID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return fmt.Errorf("%w: add the stack before adding a theme", store.ErrProgressStackNotFound)
		}
		return fmt.Errorf("failed to resolve progress stack: %w", err)
	}

	if caller.ID != ps.UserID && !caller.IsAdmin() {
		log.Warn("caller does not own progress stack",
			slog.String("caller_id", caller.ID.String()),
			slog.String("owner_id", ps.UserID.String()),
			slog.String("progress_stack_id", progressStackID.String()))
		return ErrNotOwned
	}

	// Reject an existing link before resolving the theme so a duplicate
	// reads as a conflict, not a referential problem.
	_, err = s.progressThemes.GetByLink(ctx, themeID, progressStackID)
	if err == nil {
		return store.ErrProgressThemeExists
	}
	if !store.IsNotFoundError(err) {
		return fmt.Errorf("failed to check existing link: %w", err)
	}

	// The theme must belong to the same stack the progress stack tracks.
	if _, err := s.resolver.FindTheme(ctx, themeID, ps.StackID); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		return fmt.Errorf("failed to resolve theme: %w", err)
	}

	pt, err := domain.NewProgressTheme(progressStackID, themeID)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if err := s.progressThemes.Create(ctx, pt); err != nil {
		if store.IsDuplicateError(err) {
			return err
		}
		log.Error("failed to create progress theme",
			slog.String("error", err.Error()),
			slog.String("theme_id", themeID.String()),
			slog.String("progress_stack_id", progressStackID.String()))
		return fmt.Errorf("failed to create progress theme: %w", err)
	}

	log.Debug("created progress theme",
		slog.String("progress_theme_id", pt.ID.String()),
		slog.String("theme_id", themeID.String()),
		slog.String("progress_stack_id", progressStackID.String()))
	return nil
}

// RecordProgress implements Service.RecordProgress. The three rows are read
// under row-level locks, always in theme -> stack -> user order so that
// concurrent deltas against the same hierarchy serialize instead of
// deadlocking, and all three writes commit or roll back together.
func (s *serviceImpl) RecordProgress(ctx context.Context, progressThemeID uuid.UUID, pointsDelta int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progressThemes := s.progressThemes.WithTx(tx)
		progressStacks := s.progressStacks.WithTx(tx)
		users := s.users.WithTx(tx)

		pt, err := progressThemes.GetForUpdate(ctx, progressThemeID)
		if err != nil {
			return err
		}

		ps, err := progressStacks.GetForUpdate(ctx, pt.ProgressStackID)
		if err != nil {
			return err
		}

		user, err := users.GetForUpdate(ctx, ps.UserID)
		if err != nil {
			return err
		}

		if err := progressThemes.UpdateProgress(ctx, pt.ID, pt.Progress+pointsDelta); err != nil {
			return fmt.Errorf("failed to update progress theme: %w", err)
		}

		if err := progressStacks.UpdateProgress(ctx, ps.ID, ps.Progress+pointsDelta); err != nil {
			return fmt.Errorf("failed to update progress stack: %w", err)
		}

		if err := users.UpdateTotalPoints(ctx, user.ID, user.TotalPoints+pointsDelta); err != nil {
			return fmt.Errorf("failed to update user total points: %w", err)
		}

		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to record progress",
			slog.String("error", err.Error()),
			slog.String("progress_theme_id", progressThemeID.String()),
			slog.Int("points_delta", pointsDelta))
		return fmt.Errorf("failed to record progress: %w", err)
	}

	log.Debug("recorded progress",
		slog.String("progress_theme_id", progressThemeID.String()),
		slog.Int("points_delta", pointsDelta))
	return nil
}

// ListProgressStacks implements Service.ListProgressStacks.
func (s *serviceImpl) ListProgressStacks(ctx context.Context, userID uuid.UUID) ([]*domain.ProgressStack, error) {
	stacks, err := s.progressStacks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress stacks: %w", err)
	}
	return stacks, nil
}

// ListProgressThemes implements Service.ListProgressThemes.
func (s *serviceImpl) ListProgressThemes(ctx context.Context, progressStackID uuid.UUID) ([]*domain.ProgressTheme, error) {
	themes, err := s.progressThemes.ListByProgressStack(ctx, progressStackID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress themes: %w", err)
	}
	return themes, nil
}
