package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	ct "todoapp/pkg/context"
)

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestCurrentMiddleware(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		fromRequest, ok := ct.FromContext(c.Request.Context())
		Expect(ok).To(BeTrue())
		Expect(fromRequest).To(BeIdenticalTo(GetCurrent(c)))

		_, authenticated := fromRequest.Account()

		c.JSON(http.StatusOK, gin.H{"request_id": fromRequest.RequestID(), "authenticated": authenticated})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("X-Request-ID")).To(Equal("req-42"))
	Expect(rr.Body.String()).To(MatchJSON(`{"request_id": "req-42", "authenticated": false}`))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	Expect(rr.Header().Get("X-Request-ID")).To(HaveLen(36))
}
