package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
)

// AccountService mutates identity accounts after registration.
type AccountService struct {
	store   port.Store
	refresh *RefreshTokenLifecycle
}

func NewAccountService(store port.Store, refresh *RefreshTokenLifecycle) *AccountService {
	return &AccountService{store, refresh}
}

func (as *AccountService) Profile(ctx context.Context, accountID uuid.UUID) (*domain.UserSummary, error) {
	account, err := as.account(ctx, as.store, accountID)

	if err != nil {
		return nil, err
	}

	var user *domain.DomainUser

	if account.IsLinked() {
		user, err = as.store.DomainUsers().GetByID(ctx, *account.DomainUserID)

		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}

	summary := domain.NewUserSummary(*account, user)

	return &summary, nil
}

func (as *AccountService) AssignRole(ctx context.Context, accountID uuid.UUID, role domain.RoleName) error {
	if _, err := as.account(ctx, as.store, accountID); err != nil {
		return err
	}

	return as.store.Credentials().AddToRole(ctx, accountID, role)
}

func (as *AccountService) AddClaim(ctx context.Context, accountID uuid.UUID, claim domain.Claim) error {
	if _, err := as.account(ctx, as.store, accountID); err != nil {
		return err
	}

	return as.store.Credentials().AddClaim(ctx, accountID, claim)
}

// ChangePassword verifies the current password, stores the new one and ends
// every open session of the account.
func (as *AccountService) ChangePassword(ctx context.Context, accountID uuid.UUID, current, next string) error {
	return as.store.WithTx(ctx, func(tx port.Tx) error {
		account, err := as.account(ctx, tx, accountID)

		if err != nil {
			return err
		}

		ok, err := tx.Credentials().VerifyPassword(ctx, account, current)

		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}

		if !ok {
			return apperr.InvalidCredentials
		}

		if err := ValidatePassword(next); err != nil {
			return err
		}

		if err := tx.Credentials().ChangePassword(ctx, accountID, next); err != nil {
			return fmt.Errorf("change password: %w", err)
		}

		count, err := as.refresh.In(tx.RefreshTokens()).RevokeAll(ctx, accountID)

		if err != nil {
			return err
		}

		slog.Info("Account#ChangePassword", "account_id", accountID, "revoked_sessions", count)

		return nil
	})
}

// DeleteDomainUser removes a profile. The linked identity account and its
// refresh tokens are removed with it.
func (as *AccountService) DeleteDomainUser(ctx context.Context, id uuid.UUID) error {
	user, err := as.store.DomainUsers().GetByID(ctx, id)

	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	if user == nil {
		return apperr.DomainUserNotFound
	}

	return as.store.DomainUsers().Delete(ctx, id)
}

func (as *AccountService) account(ctx context.Context, tx port.Tx, accountID uuid.UUID) (*domain.IdentityAccount, error) {
	account, err := tx.Credentials().FindByID(ctx, accountID)

	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}

	if account == nil {
		return nil, apperr.AccountNotFound
	}

	return account, nil
}
