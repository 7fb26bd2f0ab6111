package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stackly/stackly-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// constraintErrors maps the schema's unique constraint and index names to the
// entity-specific sentinel errors the store interfaces promise. The names
// must stay in sync with the migrations.
var constraintErrors = map[string]error{
	"users_email_key":                                store.ErrEmailExists,
	"users_username_key":                             store.ErrUsernameExists,
	"stacks_name_lower_idx":                          store.ErrStackNameExists,
	"themes_stack_id_name_level_key":                 store.ErrThemeExists,
	"progress_stacks_user_id_stack_id_key":           store.ErrProgressStackExists,
	"progress_themes_progress_stack_id_theme_id_key": store.ErrProgressThemeExists,
}

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
// Unique violations are translated to the entity-specific sentinel for the
// violated constraint when the constraint is known, and to the generic
// store.ErrDuplicate otherwise.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if sentinel, ok := constraintErrors[pgErr.ConstraintName]; ok {
				return fmt.Errorf("%w: %v", sentinel, err)
			}
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf(
				"%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
	}

	return err
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign key
// constraint violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected examines the number of rows affected by a database
// operation. If no rows were affected, it returns the provided notFound
// sentinel. This is used after UPDATE and DELETE statements, where zero
// affected rows means the target record does not exist.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}

// orderClause builds an ORDER BY clause from list options, restricted to the
// caller-supplied column whitelist. An empty or unknown OrderBy yields the
// fallback clause instead of interpolating caller input into SQL.
func orderClause(opts store.ListOptions, allowed map[string]string, fallback string) string {
	column, ok := allowed[opts.OrderBy]
	if !ok {
		return fallback
	}
	if opts.Desc {
		return "ORDER BY " + column + " DESC"
	}
	return "ORDER BY " + column + " ASC"
}

// limitClause builds LIMIT/OFFSET SQL from list options. A limit of zero
// means no limit.
func limitClause(limit, offset int) string {
	clause := ""
	if limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", offset)
	}
	return clause
}
