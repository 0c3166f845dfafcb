package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/login", NewRateLimiter(3, time.Minute).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func() int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:53000"
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := hit(); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", code)
	}
}

func TestRateLimiterIsPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/login", NewRateLimiter(1, time.Minute).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := hit("10.0.0.1:53000"); code != http.StatusOK {
		t.Fatalf("first client: status = %d, want 200", code)
	}
	if code := hit("10.0.0.1:53000"); code != http.StatusTooManyRequests {
		t.Errorf("first client retry: status = %d, want 429", code)
	}
	if code := hit("10.0.0.2:53000"); code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", code)
	}
}
