package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
	"todoapp/pkg/config"
)

var ErrMissingSigningSecret = errors.New("jwt signing secret is not configured")

// TokenIssuer signs HS256 access tokens from an aggregated claim set. Its
// configuration is fixed at construction.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	expiry   time.Duration
	now      func() time.Time
}

func NewTokenIssuer(cfg config.TokenConfig, clock func() time.Time) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningSecret
	}

	if clock == nil {
		clock = time.Now
	}

	return &TokenIssuer{
		key:      []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		expiry:   cfg.Expiry(),
		now:      clock,
	}, nil
}

// Issue returns the compact token and its absolute expiry. Claims sharing a
// type are encoded as a JSON array under that type.
func (ti *TokenIssuer) Issue(claims []domain.Claim, accountID string) (string, time.Time, error) {
	issuedAt := ti.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ti.expiry)

	mapClaims := jwt.MapClaims{}

	for _, claim := range claims {
		addClaim(mapClaims, claim.Type, claim.Value)
	}

	mapClaims["sub"] = accountID
	mapClaims["jti"] = uuid.NewString()
	mapClaims["iat"] = issuedAt.Unix()
	mapClaims["exp"] = expiresAt.Unix()

	if ti.issuer != "" {
		mapClaims["iss"] = ti.issuer
	}

	if ti.audience != "" {
		mapClaims["aud"] = ti.audience
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)

	signed, err := token.SignedString(ti.key)

	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, issuer, audience and expiry.
func (ti *TokenIssuer) Validate(tokenString string) (jwt.MapClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(ti.now),
	}

	if ti.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ti.issuer))
	}

	if ti.audience != "" {
		opts = append(opts, jwt.WithAudience(ti.audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return ti.key, nil
	}, opts...)

	if err != nil {
		slog.Debug("TokenIssuer#Validate", "parse", err)
		return nil, apperr.InvalidAccessToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok || !token.Valid {
		return nil, apperr.InvalidAccessToken
	}

	return claims, nil
}

func addClaim(claims jwt.MapClaims, claimType, value string) {
	existing, found := claims[claimType]

	if !found {
		claims[claimType] = value
		return
	}

	switch v := existing.(type) {
	case string:
		claims[claimType] = []string{v, value}
	case []string:
		claims[claimType] = append(v, value)
	}
}
