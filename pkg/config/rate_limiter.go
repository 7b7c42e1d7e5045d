package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"todoapp/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// AccountIDKey is the gin context key the JWT middleware stores the
// authenticated account id under.
const AccountIDKey = "x-account-id"

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter keys public auth endpoints by client IP. Anything not listed
// in configs falls back to 60 requests per minute per account or IP.
func NewRateLimiter(logger *zap.Logger, metrics *telemetry.AppMetrics, configs map[string]RateLimitConfig) *RateLimiter {
	c := cache.New(5*time.Minute, 10*time.Minute)

	endpoints := map[string]RateLimitEndpointConfig{
		"default": {
			Requests: 60,
			Window:   time.Minute,
			KeyFunc:  getAccountID,
		},
	}

	for path, cfg := range configs {
		endpoints[path] = RateLimitEndpointConfig{
			Requests: cfg.Requests,
			Window:   cfg.Window,
			KeyFunc:  ClientIP,
		}
	}

	return &RateLimiter{
		cache:   c,
		config:  endpoints,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		config := rl.endpoint(methodPath, path)
		key := rl.generateKey(c, methodPath, config.KeyFunc)

		allowed, remaining, resetTime := rl.checkRateLimit(key, config)

		keyType := "ip"
		if strings.Contains(key, "account_") {
			keyType = "account"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code": "RATE_LIMITED",
					"errors": []gin.H{{
						"field":   "rate_limit",
						"message": fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
					}},
					"details": gin.H{"retry_after": int(time.Until(resetTime).Seconds())},
				},
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, keyType)
		}

		c.Next()
	}
}

// endpoint resolves "METHOD /path", then "/path", then the default.
func (rl *RateLimiter) endpoint(methodPath, path string) RateLimitEndpointConfig {
	if config, exists := rl.config[methodPath]; exists {
		return config
	}

	if config, exists := rl.config[path]; exists {
		return config
	}

	return rl.config["default"]
}

func (rl *RateLimiter) checkRateLimit(key string, config RateLimitEndpointConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if now.Before(rateLimitEntry.ResetTime) {
			if rateLimitEntry.Count >= config.Requests {
				return false, 0, rateLimitEntry.ResetTime
			}

			rateLimitEntry.Count++
			rl.cache.Set(key, rateLimitEntry, time.Until(rateLimitEntry.ResetTime))

			return true, config.Requests - rateLimitEntry.Count, rateLimitEntry.ResetTime
		}
	}

	resetTime := now.Add(config.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, config.Window)

	return true, config.Requests - 1, resetTime
}

func (rl *RateLimiter) generateKey(c *gin.Context, path string, keyFunc func(*gin.Context) string) string {
	return fmt.Sprintf("rate_limit:%s:%s", path, keyFunc(c))
}

func getAccountID(c *gin.Context) string {
	if accountID, exists := c.Get(AccountIDKey); exists {
		return fmt.Sprintf("account_%v", accountID)
	}
	return ClientIP(c)
}
