package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"todoapp/internal/core/domain"
)

type RefreshTokenRepository struct {
	base
}

func (rr *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) (err error) {
	ctx, done := rr.observe(ctx, "create", "refresh_token")
	defer func() { done(err) }()

	query, args, err := rr.db.QueryBuilder.Insert("refresh_tokens").
		Columns("token", "account_id", "created_at", "expires_at", "revoked_at").
		Values(token.Token, token.AccountID.String(), token.Created.UTC(), token.Expires.UTC(), token.Revoked).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return err
	}

	return rr.q.QueryRowContext(ctx, query, args...).Scan(&token.ID)
}

func (rr *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (found *domain.RefreshToken, err error) {
	ctx, done := rr.observe(ctx, "get_by_token", "refresh_token")
	defer func() { done(err) }()

	query, args, err := rr.db.QueryBuilder.Select("id", "token", "account_id", "created_at", "expires_at", "revoked_at").
		From("refresh_tokens").
		Where(sq.Eq{"token": token}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := rr.q.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var data domain.RefreshToken

	if err := rr.scanner.ScanRowToStruct(rows, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &data, nil
}

// Revoke only touches a row that is not revoked yet, so of two concurrent
// callers exactly one sees true.
func (rr *RefreshTokenRepository) Revoke(ctx context.Context, id int64, at time.Time) (revoked bool, err error) {
	ctx, done := rr.observe(ctx, "revoke", "refresh_token")
	defer func() { done(err) }()

	query, args, err := rr.db.QueryBuilder.Update("refresh_tokens").
		Set("revoked_at", at.UTC()).
		Where(sq.Eq{"id": id, "revoked_at": nil}).
		ToSql()

	if err != nil {
		return false, err
	}

	affected, err := rr.exec(ctx, query, args)

	return affected == 1, err
}

func (rr *RefreshTokenRepository) RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, at time.Time) (count int64, err error) {
	ctx, done := rr.observe(ctx, "revoke_all", "refresh_token")
	defer func() { done(err) }()

	query, args, err := rr.db.QueryBuilder.Update("refresh_tokens").
		Set("revoked_at", at.UTC()).
		Where(sq.Eq{"account_id": accountID.String(), "revoked_at": nil}).
		ToSql()

	if err != nil {
		return 0, err
	}

	return rr.exec(ctx, query, args)
}

// DeleteInactiveBefore removes tokens that expired or were revoked before the
// cutoff. Active tokens are never touched.
func (rr *RefreshTokenRepository) DeleteInactiveBefore(ctx context.Context, before time.Time) (count int64, err error) {
	ctx, done := rr.observe(ctx, "purge", "refresh_token")
	defer func() { done(err) }()

	query, args, err := rr.db.QueryBuilder.Delete("refresh_tokens").
		Where(sq.Or{
			sq.Lt{"expires_at": before.UTC()},
			sq.Lt{"revoked_at": before.UTC()},
		}).
		ToSql()

	if err != nil {
		return 0, err
	}

	return rr.exec(ctx, query, args)
}

func (rr *RefreshTokenRepository) exec(ctx context.Context, query string, args []any) (int64, error) {
	result, err := rr.q.ExecContext(ctx, query, args...)

	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
