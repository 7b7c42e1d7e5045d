package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	. "todoapp/internal/adapter/http/helper"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/port"
)

// AdminHandler manages other accounts. Routes are mounted behind
// middleware.RequireRole(admin).
type AdminHandler struct {
	svc port.AccountService
}

func NewAdminHandler(svc port.AccountService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (a *AdminHandler) AssignRole(c *gin.Context) {
	accountID, ok := pathID(c)

	if !ok {
		return
	}

	params, ok := bind[request.AssignRoleRequest](c)

	if !ok {
		return
	}

	if err := a.svc.AssignRole(c.Request.Context(), accountID, domain.RoleName(params.Role)); err != nil {
		SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (a *AdminHandler) AddClaim(c *gin.Context) {
	accountID, ok := pathID(c)

	if !ok {
		return
	}

	params, ok := bind[request.AddClaimRequest](c)

	if !ok {
		return
	}

	if err := a.svc.AddClaim(c.Request.Context(), accountID, domain.NewClaim(params.Type, params.Value)); err != nil {
		SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteUser removes a domain user together with its account and sessions.
func (a *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c)

	if !ok {
		return
	}

	if err := a.svc.DeleteDomainUser(c.Request.Context(), userID); err != nil {
		SendAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "id", "Invalid identifier")
		return uuid.Nil, false
	}

	return id, true
}
