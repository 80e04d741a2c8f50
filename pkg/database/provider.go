package database

import (
	"context"

	"gorm.io/gorm"

	appErr "github.com/lofoneh/usersvc/pkg/errors"
)

// Provider hands out database connections scoped to a single callback.
type Provider interface {
	// WithConn acquires a dedicated connection, runs fn on it and releases the
	// connection before returning, whatever fn does. A failure to acquire is
	// reported as an AppError with CodeUnavailable, or CodeDeadline when ctx
	// ended first, and fn is not called.
	WithConn(ctx context.Context, fn func(conn *gorm.DB) error) error
	Ping(ctx context.Context) error
}

type PostgresProvider struct {
	db *gorm.DB
}

func NewPostgresProvider(db *gorm.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

var _ Provider = (*PostgresProvider)(nil)

func (p *PostgresProvider) WithConn(ctx context.Context, fn func(conn *gorm.DB) error) error {
	entered := false
	// gorm's Connection defers conn.Close, so release also happens on panic.
	err := p.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		entered = true
		return fn(conn)
	})
	if err != nil && !entered {
		if ctx.Err() != nil {
			return appErr.Wrap(err, appErr.CodeDeadline, "database connection interrupted")
		}
		return appErr.Wrap(err, appErr.CodeUnavailable, "database connection failed")
	}
	return err
}

func (p *PostgresProvider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "database handle unavailable")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "database ping failed")
	}
	return nil
}
