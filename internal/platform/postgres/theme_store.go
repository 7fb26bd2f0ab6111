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

// "order" is quoted throughout because it is a reserved word in SQL.
const themeColumns = `id, stack_id, name, level, description, points, "order", created_at, updated_at`

var themeOrderColumns = map[string]string{
	"name":       "lower(name)",
	"level":      "level",
	"points":     "points",
	"order":      `"order"`,
	"created_at": "created_at",
}

// PostgresThemeStore implements the store.ThemeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresThemeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresThemeStore creates a new PostgreSQL implementation of the
// ThemeStore interface. If logger is nil, a default logger will be used.
func NewPostgresThemeStore(db store.DBTX, logger *slog.Logger) *PostgresThemeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresThemeStore{
		db:     db,
		logger: logger.With(slog.String("component", "theme_store")),
	}
}

// Ensure PostgresThemeStore implements store.ThemeStore interface
var _ store.ThemeStore = (*PostgresThemeStore)(nil)

// WithTx implements store.ThemeStore.WithTx
func (s *PostgresThemeStore) WithTx(tx *sql.Tx) store.ThemeStore {
	return &PostgresThemeStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ThemeStore.Create
// Returns store.ErrThemeExists if the (stack, name, level) combination is
// already taken, and store.ErrInvalidEntity if the stack does not exist.
func (s *PostgresThemeStore) Create(ctx context.Context, theme *domain.Theme) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := theme.Validate(); err != nil {
		log.Warn("theme validation failed during create",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return err
	}

	query := `
		INSERT INTO themes (id, stack_id, name, level, description, points, "order", created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		theme.ID,
		theme.StackID,
		theme.Name,
		theme.Level,
		theme.Description,
		theme.Points,
		theme.Order,
		theme.CreatedAt,
		theme.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("duplicate theme during create",
				slog.String("theme_id", theme.ID.String()),
				slog.String("stack_id", theme.StackID.String()),
				slog.String("name", theme.Name),
				slog.String("level", string(theme.Level)))
			return mapped
		}
		log.Error("failed to create theme",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return mapped
	}

	log.Info("theme created",
		slog.String("theme_id", theme.ID.String()),
		slog.String("stack_id", theme.StackID.String()))
	return nil
}

// GetByID implements store.ThemeStore.GetByID
// Returns store.ErrThemeNotFound if the theme does not exist.
func (s *PostgresThemeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByIDInStack implements store.ThemeStore.GetByIDInStack
// Returns store.ErrThemeNotFound if the theme does not exist or belongs to a
// different stack.
func (s *PostgresThemeStore) GetByIDInStack(ctx context.Context, id, stackID uuid.UUID) (*domain.Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes WHERE id = $1 AND stack_id = $2`
	return s.getOne(ctx, query, id, stackID)
}

func (s *PostgresThemeStore) getOne(ctx context.Context, query string, args ...any) (*domain.Theme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var theme domain.Theme
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&theme.ID,
		&theme.StackID,
		&theme.Name,
		&theme.Level,
		&theme.Description,
		&theme.Points,
		&theme.Order,
		&theme.CreatedAt,
		&theme.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrThemeNotFound
		}
		log.Error("failed to get theme", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &theme, nil
}

// ListByStack implements store.ThemeStore.ListByStack
// Themes come back in display order.
func (s *PostgresThemeStore) ListByStack(ctx context.Context, stackID uuid.UUID) ([]*domain.Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes WHERE stack_id = $1 ORDER BY "order" ASC`
	return s.list(ctx, query, stackID)
}

// List implements store.ThemeStore.List
func (s *PostgresThemeStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes ` +
		orderClause(opts, themeOrderColumns, "ORDER BY created_at ASC") +
		limitClause(opts.Limit, opts.Offset)
	return s.list(ctx, query)
}

func (s *PostgresThemeStore) list(ctx context.Context, query string, args ...any) ([]*domain.Theme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list themes", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var themes []*domain.Theme
	for rows.Next() {
		var theme domain.Theme
		if err := rows.Scan(
			&theme.ID,
			&theme.StackID,
			&theme.Name,
			&theme.Level,
			&theme.Description,
			&theme.Points,
			&theme.Order,
			&theme.CreatedAt,
			&theme.UpdatedAt,
		); err != nil {
			log.Error("failed to scan theme row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		themes = append(themes, &theme)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return themes, nil
}

// Count implements store.ThemeStore.Count
func (s *PostgresThemeStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM themes`).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// MaxOrderInStack implements store.ThemeStore.MaxOrderInStack
// Returns 0 when the stack has no themes.
func (s *PostgresThemeStore) MaxOrderInStack(ctx context.Context, stackID uuid.UUID) (int, error) {
	var max int
	query := `SELECT coalesce(max("order"), 0) FROM themes WHERE stack_id = $1`
	err := s.db.QueryRowContext(ctx, query, stackID).Scan(&max)
	if err != nil {
		return 0, MapError(err)
	}
	return max, nil
}

// Update implements store.ThemeStore.Update
// Points are not written here; changing a theme's point value would require
// reconciling the stack and user aggregates, which is not supported.
// Returns store.ErrThemeNotFound if the theme does not exist, and
// store.ErrThemeExists on a (stack, name, level) collision.
func (s *PostgresThemeStore) Update(ctx context.Context, theme *domain.Theme) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := theme.Validate(); err != nil {
		log.Warn("theme validation failed during update",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return err
	}

	now := time.Now().UTC()

	query := `
		UPDATE themes
		SET name = $1, level = $2, description = $3, "order" = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		theme.Name,
		theme.Level,
		theme.Description,
		theme.Order,
		now,
		theme.ID,
	)
	if err != nil {
		log.Error("failed to update theme",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrThemeNotFound); err != nil {
		return err
	}

	theme.UpdatedAt = now
	return nil
}

// Delete implements store.ThemeStore.Delete
// Progress themes referencing it are removed by the schema's cascade rules.
// Returns store.ErrThemeNotFound if the theme does not exist.
func (s *PostgresThemeStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM themes WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete theme",
			slog.String("error", err.Error()),
			slog.String("theme_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrThemeNotFound); err != nil {
		return err
	}

	log.Info("theme deleted", slog.String("theme_id", id.String()))
	return nil
}
