package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"todoapp/internal/adapter/http/helper"
	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
	"todoapp/pkg/config"
)

// TokenValidator checks an access token and returns its claims.
type TokenValidator interface {
	Validate(token string) (jwt.MapClaims, error)
}

// DenyChecker reports access tokens revoked before they expired.
type DenyChecker interface {
	IsAccessTokenDenied(ctx context.Context, tokenID string) (bool, error)
}

// JWTMiddleware accepts "Authorization: Bearer <token>". On success the
// account id, token id and claims are stored on the gin context and on the
// request's Current.
func JWTMiddleware(validator TokenValidator, denylist DenyChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")

		if !found || strings.TrimSpace(raw) == "" {
			abort(c, apperr.InvalidAccessToken)
			return
		}

		claims, err := validator.Validate(strings.TrimSpace(raw))

		if err != nil {
			abort(c, err)
			return
		}

		subject, _ := claims.GetSubject()
		accountID, err := uuid.Parse(subject)

		if err != nil {
			abort(c, apperr.InvalidAccessToken)
			return
		}

		tokenID, _ := claims["jti"].(string)

		if denylist != nil && tokenID != "" {
			denied, err := denylist.IsAccessTokenDenied(c.Request.Context(), tokenID)

			if err != nil {
				slog.ErrorContext(c.Request.Context(), "JWTMiddleware", append([]any{"denylist", err}, GetCurrent(c).LogArgs()...)...)
				helper.SendInternalError(c, "Internal server error")
				c.Abort()
				return
			}

			if denied {
				abort(c, apperr.InvalidAccessToken)
				return
			}
		}

		c.Set(config.AccountIDKey, accountID.String())
		c.Set(AccountKey, accountID)
		c.Set(TokenIDKey, tokenID)
		c.Set(ClaimsKey, claims)

		GetCurrent(c).Authenticate(accountID.String(), tokenID)

		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	helper.SendAppError(c, err)
	c.Abort()
}

// AccountID returns the authenticated account set by JWTMiddleware.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(AccountKey)

	if !exists {
		return uuid.Nil, false
	}

	id, ok := value.(uuid.UUID)

	return id, ok
}

func Claims(c *gin.Context) jwt.MapClaims {
	if value, exists := c.Get(ClaimsKey); exists {
		if claims, ok := value.(jwt.MapClaims); ok {
			return claims
		}
	}

	return jwt.MapClaims{}
}

// TokenExpiry returns the exp of the current access token, zero if absent.
func TokenExpiry(c *gin.Context) time.Time {
	exp, err := Claims(c).GetExpirationTime()

	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}

func TokenID(c *gin.Context) string {
	return c.GetString(TokenIDKey)
}

// RequireRole admits requests whose access token carries role. It must run
// after JWTMiddleware.
func RequireRole(role domain.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(Claims(c), string(role)) {
			helper.SendForbiddenError(c, "Requires the "+string(role)+" role")
			c.Abort()
			return
		}

		c.Next()
	}
}

// HasRole reads the role claim, which is a string for one role and a list
// when the account has several.
func HasRole(claims jwt.MapClaims, role string) bool {
	switch value := claims[domain.ClaimRole].(type) {
	case string:
		return value == role
	case []any:
		for _, v := range value {
			if v == role {
				return true
			}
		}
	case []string:
		for _, v := range value {
			if v == role {
				return true
			}
		}
	}

	return false
}
