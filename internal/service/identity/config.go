package identity

import "time"

// Config: 인증 서비스 동작 파라미터
type Config struct {
	// SessionTTL: 세션 토큰 유효 기간 (기본 7일)
	SessionTTL time.Duration
	// StateTTL: OAuth state 파라미터 유효 기간
	StateTTL time.Duration
	// UserSessionsTTL: 유저별 세션 인덱스(Set) TTL
	UserSessionsTTL time.Duration
}

func DefaultConfig() Config {
	sessionTTL := 7 * 24 * time.Hour
	return Config{
		SessionTTL:      sessionTTL,
		StateTTL:        10 * time.Minute,
		UserSessionsTTL: sessionTTL + (24 * time.Hour),
	}
}
