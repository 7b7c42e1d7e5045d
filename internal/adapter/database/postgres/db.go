package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"todoapp/internal/adapter/database"
	"todoapp/pkg/config"
)

const (
	Dialect = "postgres"
	driver  = "pgx"
)

var ErrMissingURL = errors.New("DATABASE_URL is not set")

func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}

	if err := runMigrations(cfg); err != nil {
		return nil, err
	}

	sqlDB, err := otelsql.Open(driver, cfg.URL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName("todoapp"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)
	if err != nil {
		return nil, err
	}

	db := database.WithQueryLog(cfg.URL, sqlDB)

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	slog.Info("Database#Open", "driver", Dialect)

	return database.New(db, Dialect, sq.Dollar), nil
}

func runMigrations(cfg config.DatabaseConfig) error {
	migrationsPath := cfg.MigrationsPath
	if migrationsPath == "" {
		migrationsPath = "db/migrations/postgres"
	}

	sqlDB, err := sql.Open(driver, cfg.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	migrationDriver, err := pgmigrate.WithInstance(sqlDB, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	return database.RunMigrations(migrationDriver, Dialect, migrationsPath)
}
