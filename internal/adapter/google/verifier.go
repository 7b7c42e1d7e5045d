package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"todoapp/internal/core/apperr"
	"todoapp/pkg/config"
)

var issuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// Verifier checks Google ID tokens against the published JWKS. keyfunc keeps
// the key set fresh in the background and refetches on an unknown kid.
type Verifier struct {
	clientID string
	keys     keyfunc.Keyfunc
	now      func() time.Time
}

// NewVerifier starts the JWKS refresher; it stops when ctx is cancelled.
func NewVerifier(ctx context.Context, cfg config.GoogleConfig) (*Verifier, error) {
	keys, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})

	if err != nil {
		return nil, fmt.Errorf("google: load signing keys: %w", err)
	}

	return &Verifier{
		clientID: cfg.ClientID,
		keys:     keys,
		now:      time.Now,
	}, nil
}

// Verify returns the verified email of an ID token. Tokens that fail any
// check map to apperr.InvalidExternalToken.
func (v *Verifier) Verify(ctx context.Context, assertion string) (string, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(assertion, claims, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	if err != nil {
		slog.InfoContext(ctx, "Google#Verify", "rejected", err)
		return "", apperr.InvalidExternalToken
	}

	issuer, _ := claims.GetIssuer()

	if !issuers[issuer] {
		slog.InfoContext(ctx, "Google#Verify", "rejected_issuer", issuer)
		return "", apperr.InvalidExternalToken
	}

	email, _ := claims["email"].(string)

	if email == "" || !emailVerified(claims["email_verified"]) {
		return "", apperr.InvalidExternalToken
	}

	return email, nil
}

func emailVerified(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
