package helper

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	. "todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/apperr"
	"todoapp/internal/core/model/response"
	ct "todoapp/pkg/context"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

// SendAppError writes an *apperr.Error with the status of its class. Any
// other error is logged and reported as a bare 500.
func SendAppError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)

	if !ok || appErr.Class == apperr.Failure {
		ctx := c.Request.Context()
		args := append([]any{"path", c.FullPath(), "error", err}, ct.GetCurrent(ctx).LogArgs()...)
		slog.ErrorContext(ctx, "Handler#SendAppError", args...)
		SendInternalError(c, "Internal server error")
		return
	}

	field, _, _ := strings.Cut(appErr.Code, ".")

	SendError(c, appErr.Class.HTTPStatus(), appErr.Code, []response.ValidationError{
		{
			Field:   strings.ToLower(field),
			Message: appErr.Message,
		},
	})
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendForbiddenError(c *gin.Context, message string) {
	SendError(c, http.StatusForbidden, "FORBIDDEN", []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	})
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}
