package config

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const hstsValue = "max-age=31536000; includeSubDomains"

// HTTPSEnforcer redirects plain HTTP requests once enabled and marks secure
// responses with Strict-Transport-Security. Health checks are exempt.
type HTTPSEnforcer struct {
	enabled bool
	exempt  map[string]bool
	logger  *zap.Logger
}

func NewHTTPSEnforcer(cfg *AppConfig, logger *zap.Logger) *HTTPSEnforcer {
	return &HTTPSEnforcer{
		enabled: cfg.EnforceHTTPS || cfg.IsProduction(),
		exempt:  map[string]bool{"/healthz": true},
		logger:  logger,
	}
}

func (he *HTTPSEnforcer) HTTPSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !he.enabled || he.exempt[c.Request.URL.Path] || isLoopback(c.Request.Host) {
			c.Next()
			return
		}

		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", hstsValue)
			c.Next()
			return
		}

		httpsURL := "https://" + c.Request.Host + c.Request.URL.RequestURI()

		he.logger.Info("Redirecting to HTTPS",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("user_agent", c.GetHeader("User-Agent")))

		// 308 keeps the method and body of credential posts.
		status := http.StatusPermanentRedirect
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			status = http.StatusMovedPermanently
		}

		c.Redirect(status, httpsURL)
		c.Abort()
	}
}

func isLoopback(host string) bool {
	return strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1")
}
