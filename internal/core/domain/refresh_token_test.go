package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshToken_ExpiryBoundary(t *testing.T) {
	expires := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	token := &RefreshToken{Expires: expires}

	assert.True(t, token.IsActiveAt(expires.Add(-time.Nanosecond)))
	assert.True(t, token.IsExpiredAt(expires))
	assert.False(t, token.IsActiveAt(expires))
	assert.True(t, token.IsExpiredAt(expires.Add(time.Second)))
}

func TestRefreshToken_RevokeOnce(t *testing.T) {
	token := &RefreshToken{Expires: time.Now().Add(time.Hour)}
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, token.IsActive())
	assert.True(t, token.Revoke(first))
	assert.False(t, token.Revoke(first.Add(time.Minute)))
	assert.Equal(t, first, *token.Revoked)
	assert.True(t, token.IsRevoked())
	assert.False(t, token.IsActive())
}

func TestIdentityAccount_IsLinked(t *testing.T) {
	assert.False(t, (&IdentityAccount{}).IsLinked())

	user := DomainUser{}
	assert.False(t, (&IdentityAccount{DomainUserID: &user.ID}).IsLinked())
}

func TestNewUserSummary(t *testing.T) {
	account := IdentityAccount{Email: "jane@example.com"}

	summary := NewUserSummary(account, nil)

	assert.Equal(t, "jane@example.com", summary.Email)
	assert.Empty(t, summary.ID)
	assert.Equal(t, "jane@example.com", NormalizeEmail(" JANE@example.com "))
}
