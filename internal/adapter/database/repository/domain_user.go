package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
)

type DomainUserRepository struct {
	base
}

func (ur *DomainUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user *domain.DomainUser, err error) {
	ctx, done := ur.observe(ctx, "get_by_id", "domain_user")
	defer func() { done(err) }()

	query, args, err := ur.db.QueryBuilder.Select("id", "display_name", "created_at", "updated_at").
		From("domain_users").
		Where(sq.Eq{"id": id.String()}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.q.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var data domain.DomainUser

	if err := ur.scanner.ScanRowToStruct(rows, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &data, nil
}

func (ur *DomainUserRepository) Create(ctx context.Context, displayName string) (user *domain.DomainUser, err error) {
	ctx, done := ur.observe(ctx, "create", "domain_user")
	defer func() { done(err) }()

	now := time.Now().UTC()
	user = &domain.DomainUser{
		ID:          uuid.New(),
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query, args, err := ur.db.QueryBuilder.Insert("domain_users").
		Columns("id", "display_name", "created_at", "updated_at").
		Values(user.ID.String(), user.DisplayName, user.CreatedAt, user.UpdatedAt).
		ToSql()

	if err != nil {
		return nil, err
	}

	if _, err := ur.q.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the profile; the linked account and its refresh tokens
// cascade.
func (ur *DomainUserRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := ur.observe(ctx, "delete", "domain_user")
	defer func() { done(err) }()

	query, args, err := ur.db.QueryBuilder.Delete("domain_users").
		Where(sq.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ur.q.ExecContext(ctx, query, args...)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return apperr.DomainUserNotFound
	}

	return nil
}
