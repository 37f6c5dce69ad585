// Package constants: 서비스 전역에서 사용하는 고정 설정값 모음
package constants

import "time"

// GameRules: 수학 스프린트 게임 규칙 상수
var GameRules = struct {
	RoundDuration    time.Duration // 한 판 제한 시간
	StartLevel       int
	PointsPerLevel   int // 정답 1개당 level * PointsPerLevel 점
	AnswersPerLevel  int // 레벨업에 필요한 누적 정답 수 간격
	TierTwoMinLevel  int // 곱셈/나눗셈 전용 밴드 시작 레벨
	TierThreeLevel   int // 전체 연산자 밴드 시작 레벨
	AddSubScale      int // 밴드1 피연산자 스케일 (level * AddSubScale)
	HighAddSubScale  int // 밴드3 덧셈/뺄셈 스케일 (level * HighAddSubScale)
	MulDivLevelShift int // 밴드2 스케일 보정 (level - MulDivLevelShift)
}{
	RoundDuration:    60 * time.Second,
	StartLevel:       1,
	PointsPerLevel:   10,
	AnswersPerLevel:  10,
	TierTwoMinLevel:  11,
	TierThreeLevel:   31,
	AddSubScale:      15,
	HighAddSubScale:  25,
	MulDivLevelShift: 5,
}

// LeaderboardConfig: 리더보드 조회 관련 상수
var LeaderboardConfig = struct {
	DefaultLimit int
	MaxLimit     int // limit 파라미터 상한 (초과 시 클램핑)
	CacheTTL     time.Duration
}{
	DefaultLimit: 20,
	MaxLimit:     100,
	CacheTTL:     30 * time.Second,
}

// CacheTTL 는 패키지 변수다.
var CacheTTL = struct {
	Content        time.Duration
	UserStats      time.Duration
	OAuthState     time.Duration
	SessionDefault time.Duration
}{
	Content:        10 * time.Minute,
	UserStats:      30 * time.Second,
	OAuthState:     10 * time.Minute,
	SessionDefault: 7 * 24 * time.Hour,
}

// ValkeyConfig 는 패키지 변수다.
var ValkeyConfig = struct {
	ReadyTimeout      time.Duration
	DialTimeout       time.Duration
	ConnWriteTimeout  time.Duration
	BlockingPoolSize  int
	PipelineMultiplex int
}{
	ReadyTimeout:      5 * time.Second,
	DialTimeout:       5 * time.Second,
	ConnWriteTimeout:  10 * time.Second,
	BlockingPoolSize:  100,
	PipelineMultiplex: 4,
}

// DatabaseConfig 는 패키지 변수다.
var DatabaseConfig = struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
}

// DatabaseDefaults 는 패키지 변수다.
var DatabaseDefaults = struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}{
	Host:     "localhost",
	Port:     5432,
	User:     "mathsprint",
	Password: "mathsprint",
	Database: "mathsprint",
}

// RequestTimeout 는 패키지 변수다.
var RequestTimeout = struct {
	DatabasePing time.Duration
	APIRequest   time.Duration
	UserInfo     time.Duration
}{
	DatabasePing: 5 * time.Second,
	APIRequest:   10 * time.Second,
	UserInfo:     10 * time.Second,
}

// ServerTimeout 는 패키지 변수다.
var ServerTimeout = struct {
	ReadHeader     time.Duration
	Read           time.Duration
	Write          time.Duration
	Idle           time.Duration
	Shutdown       time.Duration
	MaxHeaderBytes int
}{
	ReadHeader:     5 * time.Second,
	Read:           30 * time.Second,
	Write:          30 * time.Second,
	Idle:           120 * time.Second,
	Shutdown:       10 * time.Second,
	MaxHeaderBytes: 1 << 20,
}

// ServerConfig 는 패키지 변수다.
var ServerConfig = struct {
	TrustedProxies []string
}{
	TrustedProxies: []string{"127.0.0.1", "::1"},
}

// CORSConfig 는 패키지 변수다.
var CORSConfig = struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}{
	AllowOrigins: []string{
		"http://localhost:3000",
		"http://localhost:5173",
	},
	AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
	AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
}

// SubmitRateLimit: 세션 제출 IP 기준 제한
var SubmitRateLimit = struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}{
	MaxAttempts: 30,
	Window:      time.Minute,
	Lockout:     5 * time.Minute,
}

// AppTimeout 는 패키지 변수다.
var AppTimeout = struct {
	Build time.Duration
}{
	Build: 30 * time.Second,
}
