package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"todoapp/internal/adapter/database"
	"todoapp/pkg/config"
)

const Dialect = "sqlite3"

// DSN enables foreign keys on every connection so cascades fire.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", path)
}

// NewDB migrates the database file and opens a traced, query-logged pool.
func NewDB(cfg config.DatabaseConfig) (*database.DB, error) {
	dsn := DSN(cfg.Path)

	migrationDB, err := sql.Open(Dialect, dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(migrationDB, MigrationsPath(cfg)); err != nil {
		migrationDB.Close()
		return nil, err
	}
	migrationDB.Close()

	sqlDB, err := otelsql.Open(Dialect, dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todoapp"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)
	if err != nil {
		return nil, err
	}

	db := database.WithQueryLog(dsn, sqlDB)

	// sqlite serializes writers; one connection avoids SQLITE_BUSY inside
	// transactions.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("Database#Open", "driver", Dialect, "path", cfg.Path)

	return database.New(db, Dialect, sq.Question), nil
}

// NewMemoryDB opens a private in-memory database with the schema applied.
func NewMemoryDB(migrationsPath string) (*database.DB, error) {
	db, err := sql.Open(Dialect, "file::memory:?_foreign_keys=1")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := RunMigrations(db, migrationsPath); err != nil {
		db.Close()
		return nil, err
	}

	return database.New(db, Dialect, sq.Question), nil
}

func MigrationsPath(cfg config.DatabaseConfig) string {
	if cfg.MigrationsPath != "" {
		return cfg.MigrationsPath
	}
	return "db/migrations/sqlite"
}

func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	return database.RunMigrations(driver, Dialect, migrationsPath)
}
