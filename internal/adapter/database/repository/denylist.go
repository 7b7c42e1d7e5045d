package repository

import (
	"context"
	"errors"
	"time"

	"todoapp/internal/core/port"
)

const deniedPrefix = "auth:denied:"

// TokenDenylist keeps revoked access token ids in a cache until the token
// would have expired anyway. A zero until keeps the entry forever.
type TokenDenylist struct {
	cache port.CacheRepository
	now   func() time.Time
}

func NewTokenDenylist(cache port.CacheRepository) *TokenDenylist {
	return &TokenDenylist{cache: cache, now: time.Now}
}

func (d *TokenDenylist) Deny(ctx context.Context, tokenID string, until time.Time) error {
	var ttl time.Duration

	if !until.IsZero() {
		ttl = until.Sub(d.now())

		if ttl <= 0 {
			return nil
		}
	}

	return d.cache.Set(ctx, deniedPrefix+tokenID, []byte("1"), ttl)
}

func (d *TokenDenylist) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	_, err := d.cache.Get(ctx, deniedPrefix+tokenID)

	if errors.Is(err, port.ErrCacheMiss) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
