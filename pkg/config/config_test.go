package config

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestLoad_ReadsTokenConfiguration(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_ISSUER", "issuer-x")
	t.Setenv("JWT_AUDIENCE", "audience-y")
	t.Setenv("JWT_EXPIRY_MINUTES", "15")

	cfg, err := Load()

	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.Token.Secret).To(Equal("super-secret"))
	Expect(cfg.Token.Issuer).To(Equal("issuer-x"))
	Expect(cfg.Token.Audience).To(Equal("audience-y"))
	Expect(cfg.Token.Expiry()).To(Equal(15 * time.Minute))
	Expect(cfg.Database.Driver).To(Equal("sqlite"))
	Expect(cfg.RateLimitConfigs).To(HaveKey("POST /auth"))
}

func TestLoad_MissingSecretIsAnError(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("JWT_SECRET", "")

	_, err := Load()

	Expect(err).To(MatchError(ErrMissingJWTSecret))
}

func TestLoad_InvalidExpiry(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRY_MINUTES", "soon")

	_, err := Load()

	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("parse env:"))
}
