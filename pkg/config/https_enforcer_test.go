package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func newEnforcedRouter(enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := GetDefaultConfig()
	cfg.EnforceHTTPS = enabled

	router := gin.New()
	router.Use(NewHTTPSEnforcer(cfg, zap.NewNop()).HTTPSMiddleware())
	router.POST("/auth", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/me", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func serveEnforced(enabled bool, method, url string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, nil)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	newEnforcedRouter(enabled).ServeHTTP(w, req)

	return w
}

func TestHTTPSEnforcer_RedirectsPostPreservingMethod(t *testing.T) {
	RegisterTestingT(t)

	w := serveEnforced(true, http.MethodPost, "http://api.example.com/auth", nil)

	Expect(w.Code).To(Equal(http.StatusPermanentRedirect))
	Expect(w.Header().Get("Location")).To(Equal("https://api.example.com/auth"))
}

func TestHTTPSEnforcer_RedirectsGet(t *testing.T) {
	RegisterTestingT(t)

	w := serveEnforced(true, http.MethodGet, "http://api.example.com/me?x=1", nil)

	Expect(w.Code).To(Equal(http.StatusMovedPermanently))
	Expect(w.Header().Get("Location")).To(Equal("https://api.example.com/me?x=1"))
}

func TestHTTPSEnforcer_TrustsForwardedProto(t *testing.T) {
	RegisterTestingT(t)

	w := serveEnforced(true, http.MethodPost, "http://api.example.com/auth", map[string]string{"X-Forwarded-Proto": "https"})

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("Strict-Transport-Security")).To(Equal(hstsValue))
}

func TestHTTPSEnforcer_Exemptions(t *testing.T) {
	RegisterTestingT(t)

	Expect(serveEnforced(true, http.MethodGet, "http://api.example.com/healthz", nil).Code).To(Equal(http.StatusOK))
	Expect(serveEnforced(true, http.MethodPost, "http://localhost:8080/auth", nil).Code).To(Equal(http.StatusOK))
}

func TestHTTPSEnforcer_DisabledPassesThrough(t *testing.T) {
	RegisterTestingT(t)

	w := serveEnforced(false, http.MethodPost, "http://api.example.com/auth", nil)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("Strict-Transport-Security")).To(BeEmpty())
}
