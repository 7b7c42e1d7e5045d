package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
)

const (
	RefreshTokenLifetime = 7 * 24 * time.Hour
	refreshTokenSize     = 64
)

// RefreshTokenLifecycle generates, persists and checks opaque refresh
// tokens. Created -> Active -> Expired|Revoked, never back.
type RefreshTokenLifecycle struct {
	store  port.RefreshTokenStore
	now    func() time.Time
	random io.Reader
}

func NewRefreshTokenLifecycle(store port.RefreshTokenStore, clock func() time.Time) *RefreshTokenLifecycle {
	if clock == nil {
		clock = time.Now
	}

	return &RefreshTokenLifecycle{
		store:  store,
		now:    clock,
		random: rand.Reader,
	}
}

// In returns a lifecycle bound to another store, typically a transaction.
func (rl *RefreshTokenLifecycle) In(store port.RefreshTokenStore) *RefreshTokenLifecycle {
	return &RefreshTokenLifecycle{
		store:  store,
		now:    rl.now,
		random: rl.random,
	}
}

func (rl *RefreshTokenLifecycle) Now() time.Time {
	return rl.now().UTC()
}

// Generate draws 64 random bytes and sets the fixed seven day policy. The
// caller assigns AccountID.
func (rl *RefreshTokenLifecycle) Generate() (*domain.RefreshToken, error) {
	buf := make([]byte, refreshTokenSize)

	if _, err := io.ReadFull(rl.random, buf); err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := rl.Now()

	return &domain.RefreshToken{
		Token:   base64.StdEncoding.EncodeToString(buf),
		Created: now,
		Expires: now.Add(RefreshTokenLifetime),
	}, nil
}

// GenerateFor generates a token owned by accountID.
func (rl *RefreshTokenLifecycle) GenerateFor(accountID uuid.UUID) (*domain.RefreshToken, error) {
	token, err := rl.Generate()

	if err != nil {
		return nil, err
	}

	token.AccountID = accountID

	return token, nil
}

func (rl *RefreshTokenLifecycle) IsValid(token *domain.RefreshToken) bool {
	return token != nil && token.IsActiveAt(rl.now())
}

func (rl *RefreshTokenLifecycle) Store(ctx context.Context, token *domain.RefreshToken) error {
	if err := rl.store.Create(ctx, token); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

// Lookup returns nil without error when no row matches.
func (rl *RefreshTokenLifecycle) Lookup(ctx context.Context, token string) (*domain.RefreshToken, error) {
	if token == "" {
		return nil, nil
	}

	found, err := rl.store.GetByToken(ctx, token)

	if err != nil {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	return found, nil
}

// Revoke is a conditional transition: it reports false when the token was
// already revoked, which is not an error.
func (rl *RefreshTokenLifecycle) Revoke(ctx context.Context, token *domain.RefreshToken) (bool, error) {
	at := rl.Now()

	revoked, err := rl.store.Revoke(ctx, token.ID, at)

	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}

	if revoked {
		token.Revoke(at)
	}

	return revoked, nil
}

func (rl *RefreshTokenLifecycle) RevokeAll(ctx context.Context, accountID uuid.UUID) (int64, error) {
	count, err := rl.store.RevokeAllForAccount(ctx, accountID, rl.Now())

	if err != nil {
		return 0, fmt.Errorf("revoke account refresh tokens: %w", err)
	}

	return count, nil
}

// PurgeInactive deletes rows that expired or were revoked before the cutoff.
func (rl *RefreshTokenLifecycle) PurgeInactive(ctx context.Context, before time.Time) (int64, error) {
	count, err := rl.store.DeleteInactiveBefore(ctx, before.UTC())

	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}

	return count, nil
}
