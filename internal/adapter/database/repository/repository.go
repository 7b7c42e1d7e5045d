package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"todoapp/internal/adapter/database"
	"todoapp/internal/core/port"
)

// base carries what every repository needs: the statement builder, the
// querier (pool or transaction) and telemetry.
type base struct {
	db        *database.DB
	q         database.Querier
	scanner   *database.Scanner
	telemetry port.Telemetry
}

func (b base) observe(ctx context.Context, operation, entity string) (context.Context, func(error)) {
	ctx, span := b.telemetry.StartRepositorySpan(ctx, operation, entity, map[string]interface{}{
		"db.system": b.db.Dialect,
	})
	start := time.Now()

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus("error", err.Error())
		}

		b.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(start), err)
		span.End()
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}
