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

const stackColumns = `id, name, description, points, created_at, updated_at`

// stackOrderColumns whitelists the columns a caller may order stack lists by.
var stackOrderColumns = map[string]string{
	"name":       "lower(name)",
	"points":     "points",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// PostgresStackStore implements the store.StackStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStackStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStackStore creates a new PostgreSQL implementation of the
// StackStore interface. If logger is nil, a default logger will be used.
func NewPostgresStackStore(db store.DBTX, logger *slog.Logger) *PostgresStackStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStackStore{
		db:     db,
		logger: logger.With(slog.String("component", "stack_store")),
	}
}

// Ensure PostgresStackStore implements store.StackStore interface
var _ store.StackStore = (*PostgresStackStore)(nil)

// WithTx implements store.StackStore.WithTx
func (s *PostgresStackStore) WithTx(tx *sql.Tx) store.StackStore {
	return &PostgresStackStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.StackStore.Create
// Name uniqueness is enforced case-insensitively by the schema.
// Returns store.ErrStackNameExists if the name is already taken.
func (s *PostgresStackStore) Create(ctx context.Context, stack *domain.Stack) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := stack.Validate(); err != nil {
		log.Warn("stack validation failed during create",
			slog.String("error", err.Error()),
			slog.String("stack_id", stack.ID.String()))
		return err
	}

	query := `
		INSERT INTO stacks (id, name, description, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		stack.ID,
		stack.Name,
		stack.Description,
		stack.Points,
		stack.CreatedAt,
		stack.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("duplicate stack name during create",
				slog.String("stack_id", stack.ID.String()),
				slog.String("name", stack.Name))
			return mapped
		}
		log.Error("failed to create stack",
			slog.String("error", err.Error()),
			slog.String("stack_id", stack.ID.String()))
		return mapped
	}

	log.Info("stack created",
		slog.String("stack_id", stack.ID.String()),
		slog.String("name", stack.Name))
	return nil
}

// GetByID implements store.StackStore.GetByID
// Returns store.ErrStackNotFound if the stack does not exist.
func (s *PostgresStackStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Stack, error) {
	query := `SELECT ` + stackColumns + ` FROM stacks WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByName implements store.StackStore.GetByName
// The name is compared case-insensitively.
// Returns store.ErrStackNotFound if the stack does not exist.
func (s *PostgresStackStore) GetByName(ctx context.Context, name string) (*domain.Stack, error) {
	query := `SELECT ` + stackColumns + ` FROM stacks WHERE lower(name) = lower($1)`
	return s.getOne(ctx, query, name)
}

// GetForUpdate implements store.StackStore.GetForUpdate
// It locks the stack row until the surrounding transaction ends, so
// concurrent point-delta updates serialize. Must be called on a store bound
// to a transaction via WithTx.
// Returns store.ErrStackNotFound if the stack does not exist.
func (s *PostgresStackStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Stack, error) {
	query := `SELECT ` + stackColumns + ` FROM stacks WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *PostgresStackStore) getOne(ctx context.Context, query string, arg any) (*domain.Stack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var stack domain.Stack
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&stack.ID,
		&stack.Name,
		&stack.Description,
		&stack.Points,
		&stack.CreatedAt,
		&stack.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrStackNotFound
		}
		log.Error("failed to get stack", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &stack, nil
}

// List implements store.StackStore.List
// Ordering falls back to creation time when no valid OrderBy is supplied.
func (s *PostgresStackStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.Stack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + stackColumns + ` FROM stacks ` +
		orderClause(opts, stackOrderColumns, "ORDER BY created_at ASC") +
		limitClause(opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list stacks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var stacks []*domain.Stack
	for rows.Next() {
		var stack domain.Stack
		if err := rows.Scan(
			&stack.ID,
			&stack.Name,
			&stack.Description,
			&stack.Points,
			&stack.CreatedAt,
			&stack.UpdatedAt,
		); err != nil {
			log.Error("failed to scan stack row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		stacks = append(stacks, &stack)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stacks, nil
}

// Count implements store.StackStore.Count
func (s *PostgresStackStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM stacks`).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// Update implements store.StackStore.Update
// Points are not written here; they move through UpdatePoints as themes are
// added and removed.
// Returns store.ErrStackNotFound if the stack does not exist, and
// store.ErrStackNameExists on a name collision.
func (s *PostgresStackStore) Update(ctx context.Context, stack *domain.Stack) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := stack.Validate(); err != nil {
		log.Warn("stack validation failed during update",
			slog.String("error", err.Error()),
			slog.String("stack_id", stack.ID.String()))
		return err
	}

	now := time.Now().UTC()

	query := `
		UPDATE stacks
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, stack.Name, stack.Description, now, stack.ID)
	if err != nil {
		log.Error("failed to update stack",
			slog.String("error", err.Error()),
			slog.String("stack_id", stack.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrStackNotFound); err != nil {
		return err
	}

	stack.UpdatedAt = now
	return nil
}

// UpdatePoints implements store.StackStore.UpdatePoints
// Returns store.ErrStackNotFound if the stack does not exist.
func (s *PostgresStackStore) UpdatePoints(ctx context.Context, id uuid.UUID, points int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE stacks SET points = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, points, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update stack points",
			slog.String("error", err.Error()),
			slog.String("stack_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrStackNotFound)
}

// Delete implements store.StackStore.Delete
// Themes in the stack and progress rows referencing it are removed by the
// schema's cascade rules.
// Returns store.ErrStackNotFound if the stack does not exist.
func (s *PostgresStackStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM stacks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete stack",
			slog.String("error", err.Error()),
			slog.String("stack_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrStackNotFound); err != nil {
		return err
	}

	log.Info("stack deleted", slog.String("stack_id", id.String()))
	return nil
}
