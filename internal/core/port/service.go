package port

import (
	"context"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*domain.LoginResponse, error)
	Register(ctx context.Context, name, email, password string) (*domain.UserSummary, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.LoginResponse, error)
	Logout(ctx context.Context, req domain.LogoutRequest) error
	RevokeAllSessions(ctx context.Context, accountID uuid.UUID) (int64, error)
	IsAccessTokenDenied(ctx context.Context, tokenID string) (bool, error)
}

type AccountService interface {
	Profile(ctx context.Context, accountID uuid.UUID) (*domain.UserSummary, error)
	AssignRole(ctx context.Context, accountID uuid.UUID, role domain.RoleName) error
	AddClaim(ctx context.Context, accountID uuid.UUID, claim domain.Claim) error
	ChangePassword(ctx context.Context, accountID uuid.UUID, current, next string) error
	DeleteDomainUser(ctx context.Context, id uuid.UUID) error
}
