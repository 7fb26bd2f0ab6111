package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/platform/logger"
	"github.com/stackly/stackly-api/internal/store"
)

const progressThemeColumns = `id, progress_stack_id, theme_id, progress, created_at, updated_at`

// PostgresProgressThemeStore implements the store.ProgressThemeStore
// interface using a PostgreSQL database as the storage backend.
type PostgresProgressThemeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressThemeStore creates a new PostgreSQL implementation of
// the ProgressThemeStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresProgressThemeStore(db store.DBTX, logger *slog.Logger) *PostgresProgressThemeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressThemeStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_theme_store")),
	}
}

// Ensure PostgresProgressThemeStore implements store.ProgressThemeStore interface
var _ store.ProgressThemeStore = (*PostgresProgressThemeStore)(nil)

// WithTx implements store.ProgressThemeStore.WithTx
func (s *PostgresProgressThemeStore) WithTx(tx *sql.Tx) store.ProgressThemeStore {
	return &PostgresProgressThemeStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProgressThemeStore.Create
// The (progress stack, theme) pair is unique in the schema.
// Returns store.ErrProgressThemeExists on a duplicate link and
// store.ErrInvalidEntity if the progress stack or theme does not exist.
func (s *PostgresProgressThemeStore) Create(ctx context.Context, pt *domain.ProgressTheme) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO progress_themes (id, progress_stack_id, theme_id, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		pt.ID,
		pt.ProgressStackID,
		pt.ThemeID,
		pt.Progress,
		pt.CreatedAt,
		pt.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("duplicate progress theme during create",
				slog.String("progress_stack_id", pt.ProgressStackID.String()),
				slog.String("theme_id", pt.ThemeID.String()))
			return mapped
		}
		log.Error("failed to create progress theme",
			slog.String("error", err.Error()),
			slog.String("progress_theme_id", pt.ID.String()))
		return mapped
	}

	log.Info("progress theme created",
		slog.String("progress_theme_id", pt.ID.String()),
		slog.String("progress_stack_id", pt.ProgressStackID.String()),
		slog.String("theme_id", pt.ThemeID.String()))
	return nil
}

// GetByID implements store.ProgressThemeStore.GetByID
// Returns store.ErrProgressThemeNotFound if it does not exist.
func (s *PostgresProgressThemeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressTheme, error) {
	query := `SELECT ` + progressThemeColumns + ` FROM progress_themes WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.ProgressThemeStore.GetForUpdate
// It locks the row until the surrounding transaction ends. Must be called on
// a store bound to a transaction via WithTx.
// Returns store.ErrProgressThemeNotFound if it does not exist.
func (s *PostgresProgressThemeStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressTheme, error) {
	query := `SELECT ` + progressThemeColumns + ` FROM progress_themes WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

// GetByLink implements store.ProgressThemeStore.GetByLink
// Returns store.ErrProgressThemeNotFound if no link exists between the theme
// and the progress stack.
func (s *PostgresProgressThemeStore) GetByLink(ctx context.Context, themeID, progressStackID uuid.UUID) (*domain.ProgressTheme, error) {
	query := `SELECT ` + progressThemeColumns + ` FROM progress_themes
		WHERE theme_id = $1 AND progress_stack_id = $2`
	return s.getOne(ctx, query, themeID, progressStackID)
}

func (s *PostgresProgressThemeStore) getOne(ctx context.Context, query string, args ...any) (*domain.ProgressTheme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var pt domain.ProgressTheme
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&pt.ID,
		&pt.ProgressStackID,
		&pt.ThemeID,
		&pt.Progress,
		&pt.CreatedAt,
		&pt.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrProgressThemeNotFound
		}
		log.Error("failed to get progress theme", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &pt, nil
}

// ListByProgressStack implements store.ProgressThemeStore.ListByProgressStack
func (s *PostgresProgressThemeStore) ListByProgressStack(ctx context.Context, progressStackID uuid.UUID) ([]*domain.ProgressTheme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + progressThemeColumns + ` FROM progress_themes
		WHERE progress_stack_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, progressStackID)
	if err != nil {
		log.Error("failed to list progress themes",
			slog.String("error", err.Error()),
			slog.String("progress_stack_id", progressStackID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var result []*domain.ProgressTheme
	for rows.Next() {
		var pt domain.ProgressTheme
		if err := rows.Scan(
			&pt.ID,
			&pt.ProgressStackID,
			&pt.ThemeID,
			&pt.Progress,
			&pt.CreatedAt,
			&pt.UpdatedAt,
		); err != nil {
			log.Error("failed to scan progress theme row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		result = append(result, &pt)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return result, nil
}

// UpdateProgress implements store.ProgressThemeStore.UpdateProgress
// Returns store.ErrProgressThemeNotFound if it does not exist.
func (s *PostgresProgressThemeStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE progress_themes SET progress = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, progress, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update progress theme",
			slog.String("error", err.Error()),
			slog.String("progress_theme_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProgressThemeNotFound)
}

// Delete implements store.ProgressThemeStore.Delete
// Returns store.ErrProgressThemeNotFound if it does not exist.
func (s *PostgresProgressThemeStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM progress_themes WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete progress theme",
			slog.String("error", err.Error()),
			slog.String("progress_theme_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProgressThemeNotFound); err != nil {
		return err
	}

	log.Info("progress theme deleted", slog.String("progress_theme_id", id.String()))
	return nil
}
