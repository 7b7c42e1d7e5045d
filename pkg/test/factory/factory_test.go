package factory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewRegistration_Defaults(t *testing.T) {
	reg := NewRegistration()

	assert.NotEmpty(t, reg.Name)
	assert.Contains(t, reg.Email, "@example.com")
	assert.Equal(t, DefaultPassword, reg.Password)
}

func TestNewRegistration_Overrides(t *testing.T) {
	reg := NewRegistration(map[string]any{
		"Name":  "Jane",
		"Email": "jane@example.com",
	})

	assert.Equal(t, "Jane", reg.Name)
	assert.Equal(t, "jane@example.com", reg.Email)
	assert.Equal(t, DefaultPassword, reg.Password)
}

func TestNewRegistration_UniqueEmails(t *testing.T) {
	assert.NotEqual(t, NewRegistration().Email, NewRegistration().Email)
}

func TestNewRefreshToken_Active(t *testing.T) {
	accountID := uuid.New()
	token := NewRefreshToken(accountID)

	assert.Equal(t, accountID, token.AccountID)
	assert.Nil(t, token.Revoked)
	assert.True(t, token.IsActive())
}
