package handler

import (
	"net/http"

	. "todoapp/internal/adapter/http/helper"
	"todoapp/internal/adapter/http/middleware"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
	"todoapp/internal/core/port"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	svc port.AccountService
}

func NewAccountHandler(svc port.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (a *AccountHandler) Me(c *gin.Context) {
	accountID, _ := middleware.AccountID(c)

	user, err := a.svc.Profile(c.Request.Context(), accountID)

	if err != nil {
		SendAppError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.MeResponse{
		User:   *user,
		Claims: middleware.Claims(c),
	})
}

func (a *AccountHandler) ChangePassword(c *gin.Context) {
	params, ok := bind[request.ChangePasswordRequest](c)

	if !ok {
		return
	}

	accountID, _ := middleware.AccountID(c)

	if err := a.svc.ChangePassword(c.Request.Context(), accountID, params.CurrentPassword, params.NewPassword); err != nil {
		SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
