package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoleName string

const (
	Admin   RoleName = "admin"
	Profile RoleName = "profile"
)

// IdentityAccount is the credential-bearing principal. Business data lives on
// the linked DomainUser.
type IdentityAccount struct {
	ID              uuid.UUID  `db:"id"`
	Email           string     `db:"email"`
	NormalizedEmail string     `db:"normalized_email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	DomainUserID    *uuid.UUID `db:"domain_user_id"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func (a *IdentityAccount) IsLinked() bool {
	return a.DomainUserID != nil && *a.DomainUserID != uuid.Nil
}

// DomainUser is the business profile. It intentionally carries no email.
type DomainUser struct {
	ID          uuid.UUID `db:"id"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
