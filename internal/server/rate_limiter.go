package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/mathsprint-site-go/internal/constants"
)

// SubmitRateLimiter 세션 제출 횟수 IP 기준 제한
type SubmitRateLimiter struct {
	attempts    map[string]*attemptInfo
	mu          sync.RWMutex
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
}

type attemptInfo struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// NewSubmitRateLimiter 새 Rate Limiter 생성
func NewSubmitRateLimiter() *SubmitRateLimiter {
	rl := &SubmitRateLimiter{
		attempts:    make(map[string]*attemptInfo),
		maxAttempts: constants.SubmitRateLimit.MaxAttempts,
		window:      constants.SubmitRateLimit.Window,
		lockout:     constants.SubmitRateLimit.Lockout,
	}

	// 주기적 정리 고루틴
	go rl.cleanupLoop()

	return rl
}

// Allow IP의 제출 허용 여부를 확인하고 시도를 기록한다.
func (l *SubmitRateLimiter) Allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, exists := l.attempts[ip]
	now := time.Now()

	if !exists {
		l.attempts[ip] = &attemptInfo{count: 1, firstAttempt: now}
		return true, 0
	}

	// 잠금 상태 확인
	if now.Before(info.lockedUntil) {
		return false, info.lockedUntil.Sub(now)
	}

	// 윈도우 만료 시 리셋
	if now.Sub(info.firstAttempt) > l.window {
		info.count = 0
		info.firstAttempt = now
		info.lockedUntil = time.Time{}
	}

	info.count++
	if info.count > l.maxAttempts {
		info.lockedUntil = now.Add(l.lockout)
		return false, l.lockout
	}

	return true, 0
}

// Middleware gin 미들웨어 형태로 감싼다.
func (l *SubmitRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := l.Allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", retryAfter.Round(time.Second).String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

// cleanupLoop 만료된 기록 주기적 정리
func (l *SubmitRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.cleanup()
	}
}

func (l *SubmitRateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for ip, info := range l.attempts {
		if now.Sub(info.firstAttempt) > l.window+l.lockout {
			delete(l.attempts, ip)
		}
	}
}
