package config

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP keys anonymous rate limits. The first X-Forwarded-For hop wins,
// then X-Real-IP, then the socket address.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if real := strings.TrimSpace(c.GetHeader("X-Real-IP")); real != "" {
		return real
	}

	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
