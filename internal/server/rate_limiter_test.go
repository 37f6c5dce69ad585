package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSubmitRateLimiterAllow(t *testing.T) {
	rl := &SubmitRateLimiter{
		attempts:    make(map[string]*attemptInfo),
		maxAttempts: 3,
		window:      time.Minute,
		lockout:     time.Minute,
	}

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("1.2.3.4")
		if !allowed {
			t.Fatalf("attempt %d unexpectedly blocked", i+1)
		}
	}

	allowed, retryAfter := rl.Allow("1.2.3.4")
	if allowed {
		t.Fatal("fourth attempt should be blocked")
	}
	if retryAfter <= 0 {
		t.Fatalf("retryAfter = %s, want positive", retryAfter)
	}

	// independent IPs are not affected
	allowed, _ = rl.Allow("5.6.7.8")
	if !allowed {
		t.Fatal("unrelated IP blocked")
	}
}

func TestSubmitRateLimiterWindowReset(t *testing.T) {
	rl := &SubmitRateLimiter{
		attempts:    make(map[string]*attemptInfo),
		maxAttempts: 1,
		window:      time.Minute,
		lockout:     time.Minute,
	}

	rl.Allow("1.2.3.4")

	// age the window past its expiry
	rl.mu.Lock()
	rl.attempts["1.2.3.4"].firstAttempt = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	allowed, _ := rl.Allow("1.2.3.4")
	if !allowed {
		t.Fatal("attempt after window expiry should be allowed")
	}
}

func TestSubmitRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := &SubmitRateLimiter{
		attempts:    make(map[string]*attemptInfo),
		maxAttempts: 1,
		window:      time.Minute,
		lockout:     time.Minute,
	}

	router := gin.New()
	router.POST("/submit", rl.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}
