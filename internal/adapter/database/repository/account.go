package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
)

// maxPasswordBytes is where bcrypt stops accepting input.
const maxPasswordBytes = 72

var accountColumns = []string{
	"id", "email", "normalized_email", "password_hash", "domain_user_id", "created_at", "updated_at",
}

// AccountRepository stores identity accounts with their roles and claims.
// Passwords are hashed with bcrypt; an empty password stores an empty hash
// that never verifies.
type AccountRepository struct {
	base
	hashCost int
}

func (ar *AccountRepository) FindByEmail(ctx context.Context, email string) (account *domain.IdentityAccount, err error) {
	ctx, done := ar.observe(ctx, "find_by_email", "identity_account")
	defer func() { done(err) }()

	return ar.findOne(ctx, sq.Eq{"normalized_email": domain.NormalizeEmail(email)})
}

func (ar *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (account *domain.IdentityAccount, err error) {
	ctx, done := ar.observe(ctx, "find_by_id", "identity_account")
	defer func() { done(err) }()

	return ar.findOne(ctx, sq.Eq{"id": id.String()})
}

func (ar *AccountRepository) findOne(ctx context.Context, where sq.Eq) (*domain.IdentityAccount, error) {
	query, args, err := ar.db.QueryBuilder.Select(accountColumns...).
		From("identity_accounts").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ar.q.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var account domain.IdentityAccount

	if err := ar.scanner.ScanRowToStruct(rows, &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (ar *AccountRepository) VerifyPassword(ctx context.Context, account *domain.IdentityAccount, password string) (bool, error) {
	if account == nil || account.PasswordHash == "" || password == "" || len(password) > maxPasswordBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("compare password hash: %w", err)
	}

	return true, nil
}

func (ar *AccountRepository) hash(password string) (string, error) {
	if password == "" {
		return "", nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), ar.hashCost)

	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.PasswordTooLong
	}

	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}

func (ar *AccountRepository) CreateAccount(ctx context.Context, email, password string, domainUserID uuid.UUID) (id uuid.UUID, err error) {
	ctx, done := ar.observe(ctx, "create", "identity_account")
	defer func() { done(err) }()

	hashed, err := ar.hash(password)

	if err != nil {
		return uuid.Nil, err
	}

	var linked any
	if domainUserID != uuid.Nil {
		linked = domainUserID.String()
	}

	id = uuid.New()
	now := time.Now().UTC()

	query, args, err := ar.db.QueryBuilder.Insert("identity_accounts").
		Columns(accountColumns...).
		Values(id.String(), email, domain.NormalizeEmail(email), hashed, linked, now, now).
		ToSql()

	if err != nil {
		return uuid.Nil, err
	}

	if _, err := ar.q.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, apperr.EmailAlreadyExists
		}
		return uuid.Nil, err
	}

	return id, nil
}

func (ar *AccountRepository) ChangePassword(ctx context.Context, accountID uuid.UUID, password string) (err error) {
	ctx, done := ar.observe(ctx, "change_password", "identity_account")
	defer func() { done(err) }()

	hashed, err := ar.hash(password)

	if err != nil {
		return err
	}

	query, args, err := ar.db.QueryBuilder.Update("identity_accounts").
		Set("password_hash", hashed).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": accountID.String()}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ar.q.ExecContext(ctx, query, args...)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return apperr.AccountNotFound
	}

	return nil
}

// GetRoles lists the account's role names in alphabetical order.
func (ar *AccountRepository) GetRoles(ctx context.Context, account *domain.IdentityAccount) (roles []domain.RoleName, err error) {
	ctx, done := ar.observe(ctx, "get_roles", "account_role")
	defer func() { done(err) }()

	query, args, err := ar.db.QueryBuilder.Select("r.name").
		From("roles r").
		Join("account_roles ar ON ar.role_id = r.id").
		Where(sq.Eq{"ar.account_id": account.ID.String()}).
		OrderBy("r.name").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ar.q.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var name string

		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		roles = append(roles, domain.RoleName(name))
	}

	return roles, rows.Err()
}

// GetClaims returns claims attached directly to the account, oldest first.
func (ar *AccountRepository) GetClaims(ctx context.Context, account *domain.IdentityAccount) (claims []domain.Claim, err error) {
	ctx, done := ar.observe(ctx, "get_claims", "account_claim")
	defer func() { done(err) }()

	return ar.claims(ctx, ar.db.QueryBuilder.Select("claim_type", "claim_value").
		From("account_claims").
		Where(sq.Eq{"account_id": account.ID.String()}).
		OrderBy("id"))
}

func (ar *AccountRepository) GetRoleClaims(ctx context.Context, role domain.RoleName) (claims []domain.Claim, err error) {
	ctx, done := ar.observe(ctx, "get_role_claims", "role_claim")
	defer func() { done(err) }()

	return ar.claims(ctx, ar.db.QueryBuilder.Select("rc.claim_type", "rc.claim_value").
		From("role_claims rc").
		Join("roles r ON r.id = rc.role_id").
		Where(sq.Eq{"r.name": string(role)}).
		OrderBy("rc.id"))
}

func (ar *AccountRepository) claims(ctx context.Context, builder sq.SelectBuilder) ([]domain.Claim, error) {
	query, args, err := builder.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ar.q.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var claims []domain.Claim

	if err := ar.scanner.ScanRowsToSlice(rows, &claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func (ar *AccountRepository) roleID(ctx context.Context, role domain.RoleName) (int64, error) {
	query, args, err := ar.db.QueryBuilder.Select("id").
		From("roles").
		Where(sq.Eq{"name": string(role)}).
		ToSql()

	if err != nil {
		return 0, err
	}

	var id int64

	if err := ar.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.RoleNotFound
		}
		return 0, err
	}

	return id, nil
}

// AddToRole is idempotent. Unknown roles yield apperr.RoleNotFound.
func (ar *AccountRepository) AddToRole(ctx context.Context, accountID uuid.UUID, role domain.RoleName) (err error) {
	ctx, done := ar.observe(ctx, "add_to_role", "account_role")
	defer func() { done(err) }()

	roleID, err := ar.roleID(ctx, role)

	if err != nil {
		return err
	}

	query, args, err := ar.db.QueryBuilder.Insert("account_roles").
		Columns("account_id", "role_id").
		Values(accountID.String(), roleID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()

	if err != nil {
		return err
	}

	_, err = ar.q.ExecContext(ctx, query, args...)

	return err
}

func (ar *AccountRepository) AddClaim(ctx context.Context, accountID uuid.UUID, claim domain.Claim) (err error) {
	ctx, done := ar.observe(ctx, "add_claim", "account_claim")
	defer func() { done(err) }()

	query, args, err := ar.db.QueryBuilder.Insert("account_claims").
		Columns("account_id", "claim_type", "claim_value").
		Values(accountID.String(), claim.Type, claim.Value).
		ToSql()

	if err != nil {
		return err
	}

	_, err = ar.q.ExecContext(ctx, query, args...)

	return err
}

// CreateRole inserts the role when missing and appends the given claims to
// it.
func (ar *AccountRepository) CreateRole(ctx context.Context, role domain.RoleName, claims ...domain.Claim) (err error) {
	ctx, done := ar.observe(ctx, "create", "role")
	defer func() { done(err) }()

	query, args, err := ar.db.QueryBuilder.Insert("roles").
		Columns("name").
		Values(string(role)).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()

	if err != nil {
		return err
	}

	if _, err := ar.q.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	roleID, err := ar.roleID(ctx, role)

	if err != nil {
		return err
	}

	if len(claims) == 0 {
		return nil
	}

	insert := ar.db.QueryBuilder.Insert("role_claims").Columns("role_id", "claim_type", "claim_value")

	for _, claim := range claims {
		insert = insert.Values(roleID, claim.Type, claim.Value)
	}

	query, args, err = insert.ToSql()

	if err != nil {
		return err
	}

	_, err = ar.q.ExecContext(ctx, query, args...)

	return err
}
