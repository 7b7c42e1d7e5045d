package middleware

import (
	ct "todoapp/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AccountKey = "account_id"
	TokenIDKey = "token_id"
	ClaimsKey  = "claims"

	requestIDHeader = "X-Request-ID"
	currentKey      = "current"
)

// CurrentMiddleware attaches a request scoped Current to both the gin
// context and the request context, echoing or minting X-Request-ID.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		current := ct.NewCurrent(requestID, c.ClientIP())
		c.Header(requestIDHeader, requestID)
		c.Set(currentKey, current)
		c.Request = c.Request.WithContext(ct.WithCurrent(c.Request.Context(), current))

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if value, ok := c.Get(currentKey); ok {
		if current, ok := value.(*ct.Current); ok {
			return current
		}
	}
	return ct.GetCurrent(c.Request.Context())
}
