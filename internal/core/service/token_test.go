package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
	"todoapp/pkg/config"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	issuer, err := NewTokenIssuer(config.TokenConfig{ExpiryMinutes: 60}, nil)

	assert.Nil(t, issuer)
	assert.ErrorIs(t, err, ErrMissingSigningSecret)
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	RegisterTestingT(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer(testTokenConfig, fixedClock(now))
	Expect(err).ToNot(HaveOccurred())

	token, expiresAt, err := issuer.Issue([]domain.Claim{
		domain.NewClaim(domain.ClaimDisplayName, "Jane"),
		domain.NewClaim(domain.ClaimRole, "admin"),
		domain.NewClaim(domain.ClaimRole, "profile"),
		domain.NewClaim("permission", "todos:write"),
		domain.NewClaim("permission", "todos:write"),
	}, "7b0f4a52-5f55-4a4b-8d95-7f8a0f8c9e11")

	Expect(err).ToNot(HaveOccurred())
	Expect(expiresAt).To(Equal(now.Add(time.Hour)))

	claims, err := issuer.Validate(token)
	Expect(err).ToNot(HaveOccurred())

	Expect(claims["sub"]).To(Equal("7b0f4a52-5f55-4a4b-8d95-7f8a0f8c9e11"))
	Expect(claims["iss"]).To(Equal("todoapp"))
	Expect(claims["aud"]).To(Equal("todoapp"))
	Expect(claims["jti"]).ToNot(BeEmpty())
	Expect(claims[domain.ClaimDisplayName]).To(Equal("Jane"))
	Expect(claims[domain.ClaimRole]).To(Equal([]any{"admin", "profile"}))
	Expect(claims["permission"]).To(Equal([]any{"todos:write", "todos:write"}))

	exp, err := claims.GetExpirationTime()
	Expect(err).ToNot(HaveOccurred())
	Expect(exp.Time.Equal(expiresAt)).To(BeTrue())
}

func TestTokenIssuer_UniqueTokenIDs(t *testing.T) {
	RegisterTestingT(t)

	issuer, err := NewTokenIssuer(testTokenConfig, nil)
	Expect(err).ToNot(HaveOccurred())

	first, _, _ := issuer.Issue(nil, "account")
	second, _, _ := issuer.Issue(nil, "account")

	a, err := issuer.Validate(first)
	Expect(err).ToNot(HaveOccurred())
	b, err := issuer.Validate(second)
	Expect(err).ToNot(HaveOccurred())

	Expect(a["jti"]).ToNot(Equal(b["jti"]))
}

func TestTokenIssuer_ValidateRejects(t *testing.T) {
	RegisterTestingT(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer(testTokenConfig, fixedClock(now))
	Expect(err).ToNot(HaveOccurred())

	valid, _, err := issuer.Issue(nil, "account")
	Expect(err).ToNot(HaveOccurred())

	later, err := NewTokenIssuer(testTokenConfig, fixedClock(now.Add(time.Hour)))
	Expect(err).ToNot(HaveOccurred())

	otherSecret := testTokenConfig
	otherSecret.Secret = "another-secret-that-is-long-enough"
	foreign, err := NewTokenIssuer(otherSecret, fixedClock(now))
	Expect(err).ToNot(HaveOccurred())

	otherAudience := testTokenConfig
	otherAudience.Audience = "someone-else"
	wrongAudience, err := NewTokenIssuer(otherAudience, fixedClock(now))
	Expect(err).ToNot(HaveOccurred())

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "account",
		"exp": now.Add(time.Hour).Unix(),
		"iss": "todoapp",
		"aud": "todoapp",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	Expect(err).ToNot(HaveOccurred())

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "account",
		"iss": "todoapp",
		"aud": "todoapp",
	}).SignedString([]byte(testTokenConfig.Secret))
	Expect(err).ToNot(HaveOccurred())

	cases := []struct {
		name      string
		validator *TokenIssuer
		token     string
	}{
		{"expired at the expiry instant", later, valid},
		{"signed with another secret", foreign, valid},
		{"wrong audience", wrongAudience, valid},
		{"alg none", issuer, none},
		{"missing exp", issuer, noExpiry},
		{"garbage", issuer, "not.a.token"},
		{"empty", issuer, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := tc.validator.Validate(tc.token)

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperr.InvalidAccessToken)
		})
	}
}
