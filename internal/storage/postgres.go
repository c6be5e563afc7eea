package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresDialect talks to PostgreSQL through the pgx stdlib driver.
var PostgresDialect = Dialect{
	Name:       "postgres",
	DriverName: "pgx",
	numbered:   true,
	constraint: postgresConstraint,
}

func postgresConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return core.ErrUsernameTaken
	case pgForeignKeyViolation:
		return core.ErrUserNotFound
	}
	return nil
}

// NewPostgresRepository connects to databaseURL (postgres://...) and applies
// the schema.
func NewPostgresRepository(ctx context.Context, databaseURL string) (*SQLRepository, error) {
	db, err := sql.Open(PostgresDialect.DriverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(PostgresDialect, databaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return newSQLRepository(db, PostgresDialect), nil
}
