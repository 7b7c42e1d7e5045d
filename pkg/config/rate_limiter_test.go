package config

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"todoapp/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func newTestRateLimiter() *RateLimiter {
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	return NewRateLimiter(zap.NewNop(), metrics, GetDefaultConfig().RateLimitConfigs)
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	Expect(rl).ToNot(BeNil())
	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).To(HaveKey("default"))
	Expect(rl.config).To(HaveKey("POST /auth"))
	Expect(rl.logger).ToNot(BeNil())
	Expect(rl.metrics).ToNot(BeNil())
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("60"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(59 - i)))
	}
}

func TestRateLimitMiddleware_LoginExceedLimit(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.POST("/auth", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// POST /auth allows 10 requests per minute per IP
	for i := 0; i < 12; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth", nil)
		router.ServeHTTP(w, req)

		if i < 10 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
		}
	}
}

func TestRateLimitMiddleware_AccountBasedLimiting(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(AccountIDKey, "123")
		c.Next()
	})
	router.Use(rl.RateLimitMiddleware())

	router.GET("/me", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(200))
	Expect(rl.cache.Items()).To(HaveKey("rate_limit:GET /me:account_123"))
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(zap.NewNop(), nil, map[string]RateLimitConfig{
		"GET /test": {Requests: 2, Window: 50 * time.Millisecond},
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		if i < 2 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
		}
	}

	time.Sleep(100 * time.Millisecond)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))
}

func TestRateLimiter_EndpointResolution(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(zap.NewNop(), nil, map[string]RateLimitConfig{
		"POST /auth": {Requests: 3, Window: time.Minute},
		"/signup":    {Requests: 4, Window: time.Minute},
	})

	Expect(rl.endpoint("POST /auth", "/auth").Requests).To(Equal(3))
	Expect(rl.endpoint("POST /signup", "/signup").Requests).To(Equal(4))
	Expect(rl.endpoint("GET /me", "/me").Requests).To(Equal(60))
}

func TestRateLimitMiddleware_NoDoubleCounting(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	callCount := 0
	var callCountMutex sync.Mutex
	router.POST("/auth/refresh", func(c *gin.Context) {
		callCountMutex.Lock()
		callCount++
		callCountMutex.Unlock()
		c.JSON(200, gin.H{})
	})

	numRequests := 10
	results := make([]int, numRequests)
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		index := i
		wg.Go(func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/auth/refresh", nil)
			router.ServeHTTP(w, req)

			remaining, _ := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
			results[index] = remaining
		})
	}

	wg.Wait()

	Expect(callCount).To(Equal(numRequests))

	expectedRemaining := []int{29, 28, 27, 26, 25, 24, 23, 22, 21, 20}
	sort.Ints(results)
	sort.Ints(expectedRemaining)

	Expect(results).To(Equal(expectedRemaining))
}
