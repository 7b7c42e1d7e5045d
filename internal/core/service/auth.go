package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
	tel "todoapp/internal/core/telemetry"
)

var ErrExternalVerifierMissing = errors.New("external identity verifier is not configured")

// AuthService coordinates login, registration, external login and refresh
// token rotation. Expected failures are returned as *apperr.Error.
type AuthService struct {
	store     port.Store
	claims    *ClaimsAggregator
	issuer    *TokenIssuer
	refresh   *RefreshTokenLifecycle
	external  port.ExternalIdentityVerifier
	denylist  port.TokenDenylist
	telemetry port.Telemetry
}

func NewAuthService(
	store port.Store,
	issuer *TokenIssuer,
	refresh *RefreshTokenLifecycle,
	external port.ExternalIdentityVerifier,
	denylist port.TokenDenylist,
	telemetry port.Telemetry,
) *AuthService {
	if telemetry == nil {
		telemetry = tel.NewNoOpTelemetry()
	}

	return &AuthService{
		store:     store,
		claims:    NewClaimsAggregator(store.Credentials()),
		issuer:    issuer,
		refresh:   refresh,
		external:  external,
		denylist:  denylist,
		telemetry: telemetry,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (resp *domain.LoginResponse, err error) {
	ctx, done := s.observe(ctx, "login")
	defer func() { done(err) }()

	result, account, err := s.authenticate(ctx, email, password)

	if err != nil {
		return nil, err
	}

	if !result.Succeeded {
		slog.Info("Auth#Login", "result", result.Error)
		return nil, apperr.InvalidCredentials
	}

	return s.issueSession(ctx, account)
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (domain.AuthenticationResult, *domain.IdentityAccount, error) {
	credentials := s.store.Credentials()

	account, err := credentials.FindByEmail(ctx, email)

	if err != nil {
		slog.Error("Auth#authenticate", "find_by_email", err)
		return domain.AuthenticationResult{}, nil, fmt.Errorf("find account: %w", err)
	}

	if account == nil {
		return domain.AuthenticationResult{Email: email, Error: "account_not_found"}, nil, nil
	}

	ok, err := credentials.VerifyPassword(ctx, account, password)

	if err != nil {
		slog.Error("Auth#authenticate", "verify_password", err)
		return domain.AuthenticationResult{}, nil, fmt.Errorf("verify password: %w", err)
	}

	if !ok {
		return domain.AuthenticationResult{Email: email, Error: "password_mismatch"}, nil, nil
	}

	return domain.AuthenticationResult{
		Succeeded: true,
		AccountID: account.ID,
		Email:     account.Email,
	}, account, nil
}

// GoogleLogin exchanges a verified external assertion for a session,
// provisioning the account and its profile on first use.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (resp *domain.LoginResponse, err error) {
	ctx, done := s.observe(ctx, "google_login")
	defer func() { done(err) }()

	if s.external == nil {
		return nil, ErrExternalVerifierMissing
	}

	email, err := s.external.Verify(ctx, idToken)

	if err != nil {
		return nil, err
	}

	var account *domain.IdentityAccount

	err = s.store.WithTx(ctx, func(tx port.Tx) error {
		existing, err := tx.Credentials().FindByEmail(ctx, email)

		if err != nil {
			return fmt.Errorf("find account: %w", err)
		}

		if existing != nil {
			account = existing
			return nil
		}

		account, err = s.provision(ctx, tx, DefaultDisplayName(email), email, "")

		return err
	})

	if errors.Is(err, apperr.EmailAlreadyExists) {
		// A concurrent first login provisioned the same email after our lookup.
		account, err = s.store.Credentials().FindByEmail(ctx, email)

		if err == nil && account == nil {
			err = fmt.Errorf("find account: %s vanished after conflict", email)
		}
	}

	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, account)
}

// Register creates a profile and an account bound to it. It does not log
// the user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (summary *domain.UserSummary, err error) {
	ctx, done := s.observe(ctx, "register")
	defer func() { done(err) }()

	err = s.store.WithTx(ctx, func(tx port.Tx) error {
		existing, err := tx.Credentials().FindByEmail(ctx, email)

		if err != nil {
			return fmt.Errorf("find account: %w", err)
		}

		if existing != nil {
			return apperr.EmailAlreadyExists
		}

		if err := ValidatePassword(password); err != nil {
			return err
		}

		if err := ValidateEmail(email); err != nil {
			return err
		}

		displayName := strings.TrimSpace(name)
		if displayName == "" {
			displayName = DefaultDisplayName(email)
		}

		account, err := s.provision(ctx, tx, displayName, email, password)

		if err != nil {
			return err
		}

		user, err := tx.DomainUsers().GetByID(ctx, *account.DomainUserID)

		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		created := domain.NewUserSummary(*account, user)
		summary = &created

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "account_registered", "identity_account", summary.AccountID, nil)

	return summary, nil
}

func (s *AuthService) provision(ctx context.Context, tx port.Tx, displayName, email, password string) (*domain.IdentityAccount, error) {
	user, err := tx.DomainUsers().Create(ctx, displayName)

	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	accountID, err := tx.Credentials().CreateAccount(ctx, email, password, user.ID)

	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if err := tx.Credentials().AddToRole(ctx, accountID, domain.Profile); err != nil {
		return nil, fmt.Errorf("assign default role: %w", err)
	}

	account, err := tx.Credentials().FindByID(ctx, accountID)

	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if account == nil {
		return nil, fmt.Errorf("load account: %s vanished", accountID)
	}

	return account, nil
}

// RefreshToken rotates a refresh token. The presented token is revoked and a
// new one is created in the same transaction; the revoke is conditional so
// only one of two racing exchanges wins.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (resp *domain.LoginResponse, err error) {
	ctx, done := s.observe(ctx, "refresh")
	defer func() { done(err) }()

	current, err := s.refresh.Lookup(ctx, refreshToken)

	if err != nil {
		return nil, err
	}

	if current == nil {
		return nil, apperr.InvalidRefreshToken
	}

	if !s.refresh.IsValid(current) {
		return nil, apperr.RefreshTokenExpired
	}

	account, err := s.store.Credentials().FindByID(ctx, current.AccountID)

	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}

	if account == nil {
		return nil, apperr.InvalidRefreshToken
	}

	resp, next, err := s.buildSession(ctx, account)

	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx port.Tx) error {
		lifecycle := s.refresh.In(tx.RefreshTokens())

		revoked, err := lifecycle.Revoke(ctx, current)

		if err != nil {
			return err
		}

		if !revoked {
			return apperr.RefreshTokenExpired
		}

		return lifecycle.Store(ctx, next)
	})

	if err != nil {
		return nil, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "rotated", "refresh_token", account.ID.String(), nil)

	return resp, nil
}

// Logout revokes the refresh token and, when a denylist is wired, the
// presented access token. Logging out twice succeeds.
func (s *AuthService) Logout(ctx context.Context, req domain.LogoutRequest) (err error) {
	ctx, done := s.observe(ctx, "logout")
	defer func() { done(err) }()

	current, err := s.refresh.Lookup(ctx, req.RefreshToken)

	if err != nil {
		return err
	}

	if current == nil || current.AccountID != req.AccountID {
		return apperr.InvalidRefreshToken
	}

	revoked, err := s.refresh.Revoke(ctx, current)

	if err != nil {
		return err
	}

	if revoked {
		s.telemetry.RecordBusinessEvent(ctx, "revoked", "refresh_token", req.AccountID.String(), nil)
	}

	if s.denylist != nil && req.TokenID != "" {
		if err := s.denylist.Deny(ctx, req.TokenID, req.AccessExpiresAt); err != nil {
			return fmt.Errorf("deny access token: %w", err)
		}
	}

	return nil
}

func (s *AuthService) RevokeAllSessions(ctx context.Context, accountID uuid.UUID) (count int64, err error) {
	ctx, done := s.observe(ctx, "revoke_all")
	defer func() { done(err) }()

	count, err = s.refresh.RevokeAll(ctx, accountID)

	if err != nil {
		return 0, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "revoked", "refresh_token", accountID.String(), map[string]interface{}{
		"count": int(count),
	})

	return count, nil
}

// IsAccessTokenDenied reports whether a token id was revoked through Logout.
func (s *AuthService) IsAccessTokenDenied(ctx context.Context, tokenID string) (bool, error) {
	if s.denylist == nil || tokenID == "" {
		return false, nil
	}

	return s.denylist.IsDenied(ctx, tokenID)
}

func (s *AuthService) issueSession(ctx context.Context, account *domain.IdentityAccount) (*domain.LoginResponse, error) {
	resp, refresh, err := s.buildSession(ctx, account)

	if err != nil {
		return nil, err
	}

	if err := s.refresh.Store(ctx, refresh); err != nil {
		return nil, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "issued", "refresh_token", account.ID.String(), nil)

	return resp, nil
}

func (s *AuthService) buildSession(ctx context.Context, account *domain.IdentityAccount) (*domain.LoginResponse, *domain.RefreshToken, error) {
	user, err := s.linkedUser(ctx, account)

	if err != nil {
		return nil, nil, err
	}

	claims, err := s.claims.Aggregate(ctx, account, user)

	if err != nil {
		return nil, nil, err
	}

	accessToken, expiresAt, err := s.issuer.Issue(claims, account.ID.String())

	if err != nil {
		return nil, nil, err
	}

	refresh, err := s.refresh.GenerateFor(account.ID)

	if err != nil {
		return nil, nil, err
	}

	return &domain.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresAt:    expiresAt,
		User:         domain.NewUserSummary(*account, user),
	}, refresh, nil
}

func (s *AuthService) linkedUser(ctx context.Context, account *domain.IdentityAccount) (*domain.DomainUser, error) {
	if !account.IsLinked() {
		return nil, nil
	}

	user, err := s.store.DomainUsers().GetByID(ctx, *account.DomainUserID)

	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return user, nil
}

func (s *AuthService) observe(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "auth", operation, nil)
	start := time.Now()

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus("error", err.Error())
		} else {
			span.SetStatus("ok", "")
		}

		s.telemetry.RecordServiceOperation(ctx, "auth", operation, time.Since(start), err)
		span.End()
	}
}

// DefaultDisplayName derives a profile name from the local part of an email.
func DefaultDisplayName(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")

	if local == "" {
		return "user"
	}

	return local
}
