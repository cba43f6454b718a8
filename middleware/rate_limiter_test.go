package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gigbridge/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppConfig.MaxRequestsPerMin = 2

	router := gin.New()
	router.Use(RateLimitMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	// The budget of 2 allows two requests; the third is rejected.
	assert.Equal(t, http.StatusOK, do("203.0.113.10:1234"))
	assert.Equal(t, http.StatusOK, do("203.0.113.10:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.10:1234"))

	// A different client is unaffected.
	assert.Equal(t, http.StatusOK, do("203.0.113.11:1234"))
}
