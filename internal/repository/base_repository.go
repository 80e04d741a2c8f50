package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/lofoneh/usersvc/pkg/database"
	appErr "github.com/lofoneh/usersvc/pkg/errors"
)

// SQLSTATE codes and classes we translate into client errors.
const (
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"

	pgClassDataException       = "22"
	pgClassConnectionException = "08"
)

// statements runs single SQL statements for entity T, each on its own
// connection obtained from the provider.
type statements[T any] struct {
	provider database.Provider
	entity   string
}

func newStatements[T any](p database.Provider, entity string) statements[T] {
	return statements[T]{provider: p, entity: entity}
}

// one runs a statement expected to yield at most one row. No row is reported
// as CodeNotFound.
func (s statements[T]) one(ctx context.Context, op, query string, args ...any) (*T, error) {
	var out T
	found := false
	err := s.provider.WithConn(ctx, func(conn *gorm.DB) error {
		res := conn.Raw(query, args...).Scan(&out)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, s.classify(err, op)
	}
	if !found {
		return nil, appErr.New(appErr.CodeNotFound, s.entity+" not found")
	}
	return &out, nil
}

// all runs a statement and returns every row. The result is never nil.
func (s statements[T]) all(ctx context.Context, op, query string, args ...any) ([]T, error) {
	out := []T{}
	err := s.provider.WithConn(ctx, func(conn *gorm.DB) error {
		return conn.Raw(query, args...).Scan(&out).Error
	})
	if err != nil {
		return nil, s.classify(err, op)
	}
	return out, nil
}

func (s statements[T]) classify(err error, op string) error {
	if _, ok := appErr.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return appErr.Wrap(err, appErr.CodeDeadline, fmt.Sprintf("%s %s interrupted", op, s.entity))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return appErr.Wrap(err, appErr.CodeConflict, conflictMessage(pgErr, s.entity)).
				WithMeta("constraint", pgErr.ConstraintName)
		case pgNotNullViolation, pgCheckViolation, pgForeignKeyViolation:
			return appErr.Wrap(err, appErr.CodeInvalid, pgErr.Message).
				WithMeta("sqlstate", pgErr.Code)
		}
		switch {
		case strings.HasPrefix(pgErr.Code, pgClassDataException):
			return appErr.Wrap(err, appErr.CodeInvalid, pgErr.Message).
				WithMeta("sqlstate", pgErr.Code)
		case strings.HasPrefix(pgErr.Code, pgClassConnectionException):
			return appErr.Wrap(err, appErr.CodeUnavailable, "database connection failed")
		}
	}
	return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("%s %s failed", op, s.entity))
}

func conflictMessage(pgErr *pgconn.PgError, entity string) string {
	if strings.Contains(pgErr.ConstraintName, "email") || strings.Contains(pgErr.Detail, "(email)") {
		return "email already exists"
	}
	return entity + " already exists"
}
