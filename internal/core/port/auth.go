package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
)

type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.IdentityAccount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.IdentityAccount, error)
	VerifyPassword(ctx context.Context, account *domain.IdentityAccount, password string) (bool, error)
	CreateAccount(ctx context.Context, email, password string, domainUserID uuid.UUID) (uuid.UUID, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, password string) error
	GetRoles(ctx context.Context, account *domain.IdentityAccount) ([]domain.RoleName, error)
	GetClaims(ctx context.Context, account *domain.IdentityAccount) ([]domain.Claim, error)
	GetRoleClaims(ctx context.Context, role domain.RoleName) ([]domain.Claim, error)
	AddToRole(ctx context.Context, accountID uuid.UUID, role domain.RoleName) error
	AddClaim(ctx context.Context, accountID uuid.UUID, claim domain.Claim) error
	CreateRole(ctx context.Context, role domain.RoleName, claims ...domain.Claim) error
}

type DomainUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DomainUser, error)
	Create(ctx context.Context, displayName string) (*domain.DomainUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Revoke sets the revocation timestamp only if the token is not revoked
	// yet. It reports whether this call performed the transition.
	Revoke(ctx context.Context, id int64, at time.Time) (bool, error)
	RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, at time.Time) (int64, error)
	DeleteInactiveBefore(ctx context.Context, before time.Time) (int64, error)
}

// Tx exposes the stores bound to one unit of work.
type Tx interface {
	Credentials() CredentialStore
	DomainUsers() DomainUserStore
	RefreshTokens() RefreshTokenStore
}

// Store is the persistence root. WithTx commits when fn returns nil and rolls
// back otherwise.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// ExternalIdentityVerifier validates a third-party identity assertion and
// returns the verified email.
type ExternalIdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (string, error)
}

// TokenDenylist remembers access token ids revoked before their expiry.
type TokenDenylist interface {
	Deny(ctx context.Context, tokenID string, until time.Time) error
	IsDenied(ctx context.Context, tokenID string) (bool, error)
}
