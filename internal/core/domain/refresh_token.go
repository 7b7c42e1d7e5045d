package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is an opaque, long-lived session secret. Rows are append-only;
// the only mutation is setting Revoked.
type RefreshToken struct {
	ID        int64      `db:"id"`
	Token     string     `db:"token"`
	AccountID uuid.UUID  `db:"account_id"`
	Created   time.Time  `db:"created_at"`
	Expires   time.Time  `db:"expires_at"`
	Revoked   *time.Time `db:"revoked_at"`
}

// IsExpiredAt reports whether the token has expired at now. The expiry instant
// itself counts as expired.
func (t *RefreshToken) IsExpiredAt(now time.Time) bool {
	return !now.Before(t.Expires)
}

func (t *RefreshToken) IsActiveAt(now time.Time) bool {
	return t.Revoked == nil && !t.IsExpiredAt(now)
}

func (t *RefreshToken) IsActive() bool {
	return t.IsActiveAt(time.Now())
}

func (t *RefreshToken) IsRevoked() bool {
	return t.Revoked != nil
}

// Revoke marks the token revoked at the given instant. Revoking twice keeps
// the first timestamp and returns false.
func (t *RefreshToken) Revoke(at time.Time) bool {
	if t.Revoked != nil {
		return false
	}

	t.Revoked = &at

	return true
}
