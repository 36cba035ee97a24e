package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const (
	pgForeignKeyViolation = "23503"
	pgIntegrityClass      = "23"
)

// storageError классифицирует ошибку драйвера. Доменные ошибки и уже обёрнутые
// StorageError возвращаются без изменений.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewStorageError(op, fmt.Errorf("%w: %w", domain.ErrTimeout, err))
	case isConstraintViolation(err):
		return domain.NewStorageError(op, fmt.Errorf("%w: %w", domain.ErrConstraintViolation, err))
	default:
		return domain.NewStorageError(op, err)
	}
}

func isDomainError(err error) bool {
	var se *domain.StorageError
	return errors.As(err, &se) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrProductInUse) ||
		domain.IsNotFound(err)
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgIntegrityClass)
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
