package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"

	"todoapp/internal/core/apperr"
	"todoapp/internal/core/domain"
	"todoapp/pkg/config"
)

type stubValidator struct {
	claims jwt.MapClaims
}

func (v stubValidator) Validate(token string) (jwt.MapClaims, error) {
	if token != "good" {
		return nil, apperr.InvalidAccessToken
	}

	return v.claims, nil
}

type stubDenylist struct {
	denied map[string]bool
	err    error
}

func (d stubDenylist) IsAccessTokenDenied(ctx context.Context, tokenID string) (bool, error) {
	return d.denied[tokenID], d.err
}

func newAuthRouter(validator TokenValidator, denylist DenyChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/me", JWTMiddleware(validator, denylist), func(c *gin.Context) {
		accountID, ok := AccountID(c)
		current, _ := GetCurrent(c).Account()

		c.JSON(http.StatusOK, gin.H{
			"ok":         ok,
			"account_id": accountID.String(),
			"rate_key":   c.GetString(config.AccountIDKey),
			"current":    current,
			"token_id":   TokenID(c),
			"exp":        TokenExpiry(c).Unix(),
		})
	})

	return router
}

func serve(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func TestJWTMiddleware_Accepts(t *testing.T) {
	RegisterTestingT(t)

	accountID := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	router := newAuthRouter(stubValidator{claims: jwt.MapClaims{
		"sub": accountID.String(),
		"jti": "token-1",
		"exp": float64(exp.Unix()),
	}}, stubDenylist{})

	rr := serve(router, "Bearer good")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(MatchJSON(`{
		"ok": true,
		"account_id": "` + accountID.String() + `",
		"rate_key": "` + accountID.String() + `",
		"current": "` + accountID.String() + `",
		"token_id": "token-1",
		"exp": ` + jsonInt(exp.Unix()) + `
	}`))
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	RegisterTestingT(t)

	valid := jwt.MapClaims{"sub": uuid.NewString(), "jti": "token-1"}

	cases := []struct {
		name          string
		authorization string
		validator     TokenValidator
		denylist      DenyChecker
		status        int
	}{
		{"missing header", "", stubValidator{claims: valid}, nil, http.StatusUnauthorized},
		{"not a bearer", "Basic good", stubValidator{claims: valid}, nil, http.StatusUnauthorized},
		{"empty bearer", "Bearer  ", stubValidator{claims: valid}, nil, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubValidator{claims: valid}, nil, http.StatusUnauthorized},
		{"subject is not an account id", "Bearer good", stubValidator{claims: jwt.MapClaims{"sub": "nope"}}, nil, http.StatusUnauthorized},
		{"denied token", "Bearer good", stubValidator{claims: valid}, stubDenylist{denied: map[string]bool{"token-1": true}}, http.StatusUnauthorized},
		{"denylist unavailable", "Bearer good", stubValidator{claims: valid}, stubDenylist{err: errors.New("cache down")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(newAuthRouter(tc.validator, tc.denylist), tc.authorization)

			Expect(rr.Code).To(Equal(tc.status))
			Expect(rr.Body.String()).ToNot(ContainSubstring(`"ok"`))
		})
	}
}

func TestTokenExpiry_Missing(t *testing.T) {
	RegisterTestingT(t)

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	Expect(TokenExpiry(c).IsZero()).To(BeTrue())
	Expect(TokenID(c)).To(BeEmpty())

	_, ok := AccountID(c)
	Expect(ok).To(BeFalse())
}

func TestHasRole(t *testing.T) {
	RegisterTestingT(t)

	Expect(HasRole(jwt.MapClaims{"role": "admin"}, "admin")).To(BeTrue())
	Expect(HasRole(jwt.MapClaims{"role": []any{"profile", "admin"}}, "admin")).To(BeTrue())
	Expect(HasRole(jwt.MapClaims{"role": []string{"admin"}}, "admin")).To(BeTrue())
	Expect(HasRole(jwt.MapClaims{"role": "profile"}, "admin")).To(BeFalse())
	Expect(HasRole(jwt.MapClaims{"role": []any{"profile"}}, "admin")).To(BeFalse())
	Expect(HasRole(jwt.MapClaims{}, "admin")).To(BeFalse())
	Expect(HasRole(nil, "admin")).To(BeFalse())
}

func TestRequireRole(t *testing.T) {
	RegisterTestingT(t)

	gin.SetMode(gin.TestMode)

	newRouter := func(role any) *gin.Engine {
		router := gin.New()
		router.GET("/me", JWTMiddleware(stubValidator{claims: jwt.MapClaims{
			"sub":  uuid.NewString(),
			"jti":  "token-1",
			"role": role,
		}}, nil), RequireRole(domain.Admin), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		return router
	}

	Expect(serve(newRouter([]any{"profile", "admin"}), "Bearer good").Code).To(Equal(http.StatusNoContent))

	rr := serve(newRouter("profile"), "Bearer good")
	Expect(rr.Code).To(Equal(http.StatusForbidden))
	Expect(rr.Body.String()).To(ContainSubstring(`"FORBIDDEN"`))
}
