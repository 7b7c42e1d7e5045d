package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB couples a connection pool with a statement builder using the
// placeholder format of its driver.
type DB struct {
	*sql.DB
	QueryBuilder sq.StatementBuilderType
	Dialect      string
}

func New(db *sql.DB, dialect string, placeholder sq.PlaceholderFormat) *DB {
	return &DB{
		DB:           db,
		QueryBuilder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		Dialect:      dialect,
	}
}

// WithQueryLog wraps the pool's driver so every statement is logged through
// zerolog. Arguments are left out since they carry hashes and tokens.
func WithQueryLog(dsn string, db *sql.DB) *sql.DB {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	return sqldblogger.OpenDriver(dsn, db.Driver(), zerologadapter.New(logger),
		sqldblogger.WithMinimumLevel(sqldblogger.LevelInfo),
		sqldblogger.WithLogArguments(false),
	)
}

// RunMigrations applies every pending migration found under path.
func RunMigrations(driver migratedb.Driver, dialect, path string) error {
	m, err := migrate.NewWithDatabaseInstance("file://"+path, dialect, driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
