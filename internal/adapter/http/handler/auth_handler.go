package handler

import (
	"net/http"

	. "todoapp/internal/adapter/http/helper"
	"todoapp/internal/adapter/http/middleware"
	. "todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/port"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc port.AuthService
}

func NewAuthHandler(svc port.AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	params, ok := bind[request.SignUpRequest](c)

	if !ok {
		return
	}

	user, err := a.svc.Register(c.Request.Context(), params.Name, params.Email, params.Password)

	if err != nil {
		SendAppError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, user)
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	params, ok := bind[request.LoginRequest](c)

	if !ok {
		return
	}

	resp, err := a.svc.Login(c.Request.Context(), params.Email, params.Password)

	if err != nil {
		SendAppError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, resp)
}

func (a *AuthHandler) AuthWithGoogle(c *gin.Context) {
	params, ok := bind[request.GoogleLoginRequest](c)

	if !ok {
		return
	}

	resp, err := a.svc.GoogleLogin(c.Request.Context(), params.IDToken)

	if err != nil {
		SendAppError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, resp)
}

func (a *AuthHandler) Refresh(c *gin.Context) {
	params, ok := bind[request.RefreshRequest](c)

	if !ok {
		return
	}

	resp, err := a.svc.RefreshToken(c.Request.Context(), params.RefreshToken)

	if err != nil {
		SendAppError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, resp)
}

func (a *AuthHandler) Logout(c *gin.Context) {
	params, ok := bind[request.LogoutRequest](c)

	if !ok {
		return
	}

	accountID, _ := middleware.AccountID(c)

	err := a.svc.Logout(c.Request.Context(), domain.LogoutRequest{
		AccountID:       accountID,
		RefreshToken:    params.RefreshToken,
		TokenID:         middleware.TokenID(c),
		AccessExpiresAt: middleware.TokenExpiry(c),
	})

	if err != nil {
		SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (a *AuthHandler) LogoutEverywhere(c *gin.Context) {
	accountID, _ := middleware.AccountID(c)

	if _, err := a.svc.RevokeAllSessions(c.Request.Context(), accountID); err != nil {
		SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bind decodes and validates the JSON body, answering 400 itself on failure.
func bind[T any](c *gin.Context) (T, bool) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return params, false
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return params, false
	}

	return params, true
}
