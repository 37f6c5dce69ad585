package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/util"
)

// Config: 사이트 백엔드 전체 동작에 필요한 설정을 담는 구조체
type Config struct {
	Server   ServerConfig
	OAuth    OAuthConfig
	Session  SessionConfig
	Valkey   ValkeyConfig
	Postgres PostgresConfig
	Content  ContentConfig
	Logging  LoggingConfig
	Version  string
}

// ServerConfig: API 서버 설정
type ServerConfig struct {
	Port   int
	APIKey string // 관리자 API 보호용 (빈 문자열이면 관리자 API 비활성화)
}

// OAuthConfig: 외부 인증 공급자(OAuth2/OIDC) 연동 설정
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
}

// SessionConfig: 세션 토큰 발급/만료 설정
type SessionConfig struct {
	TTL time.Duration
}

// ValkeyConfig: 캐시/세션 저장소(Valkey) 연결 설정
type ValkeyConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PostgresConfig: 메인 데이터베이스(PostgreSQL) 연결 설정
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// ContentConfig: 정적 마크다운 콘텐츠 루트 디렉토리 설정
type ContentConfig struct {
	Dir string
}

// LoggingConfig: 애플리케이션 로그 설정 (레벨, 디렉토리, 로테이션 정책)
type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load: .env 파일 및 환경 변수로부터 설정을 로드하고, 기본값을 적용하여 Config 객체를 생성한다.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:   getEnvInt("SERVER_PORT", 8080),
			APIKey: util.TrimSpace(getEnv("API_SECRET_KEY", "")),
		},
		OAuth: OAuthConfig{
			ClientID:     getEnv("OAUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("OAUTH_CLIENT_SECRET", ""),
			AuthURL:      getEnv("OAUTH_AUTH_URL", ""),
			TokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
			UserInfoURL:  getEnv("OAUTH_USERINFO_URL", ""),
			RedirectURL:  getEnv("OAUTH_REDIRECT_URL", ""),
			Scopes:       parseCommaSeparated(getEnv("OAUTH_SCOPES", "openid,email,profile")),
		},
		Session: SessionConfig{
			TTL: time.Duration(getEnvInt(
				"SESSION_TTL_HOURS",
				int(constants.CacheTTL.SessionDefault.Hours()),
			)) * time.Hour,
		},
		Valkey: ValkeyConfig{
			Host:     getEnv("CACHE_HOST", "localhost"),
			Port:     getEnvInt("CACHE_PORT", 6379),
			Password: getEnv("CACHE_PASSWORD", ""),
			DB:       getEnvInt("CACHE_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", constants.DatabaseDefaults.Host),
			Port:     getEnvInt("POSTGRES_PORT", constants.DatabaseDefaults.Port),
			User:     getEnv("POSTGRES_USER", constants.DatabaseDefaults.User),
			Password: getEnv("POSTGRES_PASSWORD", constants.DatabaseDefaults.Password),
			Database: getEnv("POSTGRES_DB", constants.DatabaseDefaults.Database),
		},
		Content: ContentConfig{
			Dir: getEnv("CONTENT_DIR", "content"),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Dir:        getEnv("LOG_DIR", "logs"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Version: util.TrimSpace(getEnv("APP_VERSION", "1.0.0-go")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate: 필수 설정값이 누락되지 않았는지 검증한다.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.OAuth.ClientID != "" {
		// 공급자 연동을 켠 경우에만 나머지 OAuth 값을 요구한다.
		if c.OAuth.ClientSecret == "" {
			return fmt.Errorf("OAUTH_CLIENT_SECRET is required when OAUTH_CLIENT_ID is set")
		}
		for key, value := range map[string]string{
			"OAUTH_AUTH_URL":     c.OAuth.AuthURL,
			"OAUTH_TOKEN_URL":    c.OAuth.TokenURL,
			"OAUTH_USERINFO_URL": c.OAuth.UserInfoURL,
			"OAUTH_REDIRECT_URL": c.OAuth.RedirectURL,
		} {
			if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
				return fmt.Errorf("%s must be an absolute URL", key)
			}
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := util.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
