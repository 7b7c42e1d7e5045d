package factory

import (
	"fmt"
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"todoapp/internal/core/domain"
)

const DefaultPassword = "Passw0rd!"

// Registration is the input of a sign up.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// NewRegistration builds a sign up with a random name, a unique valid email
// and DefaultPassword unless overridden.
func NewRegistration(customData ...map[string]any) Registration {
	reg := fab.New(Registration{}).Build(customData...)

	if !overridden(customData, "Email") {
		reg.Email = fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
	}

	if !overridden(customData, "Password") {
		reg.Password = DefaultPassword
	}

	return reg
}

// NewRefreshToken builds an active, unsaved token owned by accountID.
func NewRefreshToken(accountID uuid.UUID, customData ...map[string]any) domain.RefreshToken {
	token := fab.New(domain.RefreshToken{}).Build(customData...)
	now := time.Now().UTC()

	token.ID = 0
	token.AccountID = accountID

	if !overridden(customData, "Token") {
		token.Token = uuid.NewString()
	}

	if !overridden(customData, "Created") {
		token.Created = now
	}

	if !overridden(customData, "Expires") {
		token.Expires = now.Add(7 * 24 * time.Hour)
	}

	if !overridden(customData, "Revoked") {
		token.Revoked = nil
	}

	return token
}

func overridden(customData []map[string]any, key string) bool {
	for _, data := range customData {
		if _, exists := data[key]; exists {
			return true
		}
	}
	return false
}
