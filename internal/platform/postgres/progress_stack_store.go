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

const progressStackColumns = `id, user_id, stack_id, progress, created_at, updated_at`

// PostgresProgressStackStore implements the store.ProgressStackStore
// interface using a PostgreSQL database as the storage backend.
type PostgresProgressStackStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStackStore creates a new PostgreSQL implementation of
// the ProgressStackStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresProgressStackStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStackStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStackStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_stack_store")),
	}
}

// Ensure PostgresProgressStackStore implements store.ProgressStackStore interface
var _ store.ProgressStackStore = (*PostgresProgressStackStore)(nil)

// WithTx implements store.ProgressStackStore.WithTx
func (s *PostgresProgressStackStore) WithTx(tx *sql.Tx) store.ProgressStackStore {
	return &PostgresProgressStackStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProgressStackStore.Create
// The (user, stack) pair is unique in the schema, so a create racing a
// concurrent create for the same pair loses with store.ErrProgressStackExists
// rather than inserting a second row.
// Returns store.ErrInvalidEntity if the user or stack does not exist.
func (s *PostgresProgressStackStore) Create(ctx context.Context, ps *domain.ProgressStack) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO progress_stacks (id, user_id, stack_id, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		ps.ID,
		ps.UserID,
		ps.StackID,
		ps.Progress,
		ps.CreatedAt,
		ps.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("duplicate progress stack during create",
				slog.String("user_id", ps.UserID.String()),
				slog.String("stack_id", ps.StackID.String()))
			return mapped
		}
		log.Error("failed to create progress stack",
			slog.String("error", err.Error()),
			slog.String("progress_stack_id", ps.ID.String()))
		return mapped
	}

	log.Info("progress stack created",
		slog.String("progress_stack_id", ps.ID.String()),
		slog.String("user_id", ps.UserID.String()),
		slog.String("stack_id", ps.StackID.String()))
	return nil
}

// GetByID implements store.ProgressStackStore.GetByID
// Returns store.ErrProgressStackNotFound if it does not exist.
func (s *PostgresProgressStackStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressStack, error) {
	query := `SELECT ` + progressStackColumns + ` FROM progress_stacks WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.ProgressStackStore.GetForUpdate
// It locks the row until the surrounding transaction ends. Must be called on
// a store bound to a transaction via WithTx.
// Returns store.ErrProgressStackNotFound if it does not exist.
func (s *PostgresProgressStackStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressStack, error) {
	query := `SELECT ` + progressStackColumns + ` FROM progress_stacks WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *PostgresProgressStackStore) getOne(ctx context.Context, query string, arg any) (*domain.ProgressStack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var ps domain.ProgressStack
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&ps.ID,
		&ps.UserID,
		&ps.StackID,
		&ps.Progress,
		&ps.CreatedAt,
		&ps.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrProgressStackNotFound
		}
		log.Error("failed to get progress stack", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &ps, nil
}

// ListByUser implements store.ProgressStackStore.ListByUser
func (s *PostgresProgressStackStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ProgressStack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + progressStackColumns + ` FROM progress_stacks
		WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list progress stacks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var result []*domain.ProgressStack
	for rows.Next() {
		var ps domain.ProgressStack
		if err := rows.Scan(
			&ps.ID,
			&ps.UserID,
			&ps.StackID,
			&ps.Progress,
			&ps.CreatedAt,
			&ps.UpdatedAt,
		); err != nil {
			log.Error("failed to scan progress stack row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		result = append(result, &ps)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return result, nil
}

// UpdateProgress implements store.ProgressStackStore.UpdateProgress
// Returns store.ErrProgressStackNotFound if it does not exist.
func (s *PostgresProgressStackStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE progress_stacks SET progress = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, progress, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update progress stack",
			slog.String("error", err.Error()),
			slog.String("progress_stack_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProgressStackNotFound)
}

// Delete implements store.ProgressStackStore.Delete
// Progress themes nested under it are removed by the schema's cascade rules.
// Returns store.ErrProgressStackNotFound if it does not exist.
func (s *PostgresProgressStackStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM progress_stacks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete progress stack",
			slog.String("error", err.Error()),
			slog.String("progress_stack_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProgressStackNotFound); err != nil {
		return err
	}

	log.Info("progress stack deleted", slog.String("progress_stack_id", id.String()))
	return nil
}
