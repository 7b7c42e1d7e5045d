package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthenticationResult is the outcome of checking credentials against the
// credential store.
type AuthenticationResult struct {
	Succeeded bool
	AccountID uuid.UUID
	Email     string
	Error     string
}

type UserSummary struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         UserSummary `json:"user"`
}

// NewUserSummary builds the user view from an account and its optional
// linked profile.
func NewUserSummary(account IdentityAccount, user *DomainUser) UserSummary {
	summary := UserSummary{
		AccountID: account.ID.String(),
		Email:     account.Email,
	}

	if user != nil {
		summary.ID = user.ID.String()
		summary.DisplayName = user.DisplayName
	}

	return summary
}

// LogoutRequest identifies the session to end. TokenID and AccessExpiresAt
// come from the presented access token and are optional.
type LogoutRequest struct {
	AccountID       uuid.UUID
	RefreshToken    string
	TokenID         string
	AccessExpiresAt time.Time
}
