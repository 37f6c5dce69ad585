package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kapu/mathsprint-site-go/internal/domain"
	"github.com/kapu/mathsprint-site-go/internal/service/cache"
	"github.com/kapu/mathsprint-site-go/internal/util"
)

const (
	sessionTokenPrefix = "sess_"
	stateTokenPrefix   = "st_"

	sessionKeyPrefix      = "auth:sess:"
	userSessionsKeyPrefix = "auth:user_sessions:"
	oauthStateKeyPrefix   = "auth:oauth_state:"
)

// Session: API 응답용 세션 정보
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Service: DB(유저) + Valkey(세션/OAuth state) 기반 인증 서비스.
// 비밀번호는 다루지 않으며 신원 확인은 전적으로 OAuth 제공자에 위임한다.
type Service struct {
	db       *gorm.DB
	cacheSvc *cache.Service
	provider *Provider
	logger   *slog.Logger
	cfg      Config
}

// NewService: 인증 서비스를 생성하고 users 테이블을 준비한다.
func NewService(ctx context.Context, db *gorm.DB, cacheSvc *cache.Service, provider *Provider, logger *slog.Logger, cfg Config) (*Service, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if db == nil {
		return nil, fmt.Errorf("db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg = DefaultConfig()
	}

	svc := &Service{
		db:       db,
		cacheSvc: cacheSvc,
		provider: provider,
		logger:   logger,
		cfg:      cfg,
	}

	if err := svc.createTablesIfNotExist(ctx); err != nil {
		return nil, err
	}

	return svc, nil
}

func (s *Service) createTablesIfNotExist(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			external_id TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL,
			avatar_url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

// BeginLogin: OAuth 로그인 흐름을 시작한다.
// state 토큰을 생성해 Valkey에 저장하고 제공자 인가 URL을 반환한다.
func (s *Service) BeginLogin(ctx context.Context) (string, error) {
	if s.cacheSvc == nil {
		return "", newError(CodeInternal, "cache service not configured", nil)
	}
	if s.provider == nil {
		return "", newError(CodeInternal, "oauth provider not configured", nil)
	}

	state, err := mintToken(stateTokenPrefix, 24)
	if err != nil {
		return "", newError(CodeInternal, "failed to generate state", err)
	}

	key := oauthStateKeyPrefix + tokenDigest(state)
	if err := s.cacheSvc.Set(ctx, key, "1", s.cfg.StateTTL); err != nil {
		return "", newError(CodeInternal, "failed to store state", err)
	}

	return s.provider.AuthCodeURL(state), nil
}

// CompleteLogin: OAuth 콜백을 처리한다.
// state를 검증한 뒤 코드 교환과 userinfo 조회를 거쳐 사용자를
// external_id 기준으로 upsert하고 세션을 발급한다.
func (s *Service) CompleteLogin(ctx context.Context, state, code string) (*Session, *domain.User, error) {
	if s.cacheSvc == nil || s.provider == nil {
		return nil, nil, newError(CodeInternal, "identity service not fully configured", nil)
	}
	if state == "" || code == "" {
		return nil, nil, newError(CodeInvalidInput, "missing state or code", nil)
	}

	// state는 1회용: 존재 확인과 동시에 폐기한다.
	stateKey := oauthStateKeyPrefix + tokenDigest(state)
	exists, err := s.cacheSvc.Exists(ctx, stateKey)
	if err != nil {
		return nil, nil, newError(CodeInternal, "failed to check state", err)
	}
	if !exists {
		return nil, nil, newError(CodeStateMismatch, "unknown or expired state", nil)
	}
	_ = s.cacheSvc.Del(ctx, stateKey)

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, nil, newError(CodeProvider, "code exchange failed", err)
	}

	info, err := s.provider.FetchUserInfo(ctx, token)
	if err != nil {
		return nil, nil, newError(CodeProvider, "userinfo fetch failed", err)
	}

	user, err := s.upsertUser(ctx, info)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// upsertUser: external_id 기준으로 사용자를 생성하거나 프로필을 갱신한다.
func (s *Service) upsertUser(ctx context.Context, info *UserInfo) (*domain.User, error) {
	externalID := info.ExternalID()
	displayName := util.TrimSpace(info.Name)
	if displayName == "" {
		displayName = "Player"
	}

	var avatarURL *string
	if info.Picture != "" {
		picture := info.Picture
		avatarURL = &picture
	}

	now := time.Now().UTC()

	var existing userModel
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"email":        info.Email,
			"display_name": displayName,
			"avatar_url":   avatarURL,
			"updated_at":   now,
		}
		if err := s.db.WithContext(ctx).Model(&userModel{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; err != nil {
			return nil, newError(CodeInternal, "failed to update user", err)
		}
		existing.Email = info.Email
		existing.DisplayName = displayName
		existing.AvatarURL = avatarURL
		existing.UpdatedAt = now
		return toUser(&existing), nil

	case stdErrors.Is(err, gorm.ErrRecordNotFound):
		model := &userModel{
			ID:          uuid.NewString(),
			ExternalID:  externalID,
			Email:       info.Email,
			DisplayName: displayName,
			AvatarURL:   avatarURL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				// 동시 콜백으로 먼저 생성된 경우: 다시 조회해 반환한다.
				var raced userModel
				if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&raced).Error; err != nil {
					return nil, newError(CodeInternal, "failed to resolve duplicate user", err)
				}
				return toUser(&raced), nil
			}
			return nil, newError(CodeInternal, "failed to create user", err)
		}
		return toUser(model), nil

	default:
		return nil, newError(CodeInternal, "failed to query user", err)
	}
}

// Logout: 세션 무효화
func (s *Service) Logout(ctx context.Context, token string) error {
	if s.cacheSvc == nil {
		return newError(CodeInternal, "cache service not configured", nil)
	}

	sessionHash := tokenDigest(token)
	key := sessionKeyPrefix + sessionHash

	var data sessionData
	found, err := s.cacheSvc.Get(ctx, key, &data)
	if err != nil {
		return newError(CodeInternal, "failed to read session", err)
	}
	if !found || data.UserID == "" {
		return newError(CodeUnauthorized, "invalid session", nil)
	}

	if err := s.cacheSvc.Del(ctx, key); err != nil {
		return newError(CodeInternal, "failed to delete session", err)
	}
	_, _ = s.cacheSvc.SRem(ctx, userSessionsKeyPrefix+data.UserID, []string{sessionHash})

	return nil
}

// Me: 현재 사용자 정보 조회 (세션 검증 포함)
func (s *Service) Me(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.ValidateSession(ctx, token)
	if err != nil {
		return nil, err
	}

	var user userModel
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeUnauthorized, "user not found", nil)
		}
		return nil, newError(CodeInternal, "failed to query user", err)
	}

	return toUser(&user), nil
}

type sessionData struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidateSession: 토큰을 검증하고 소유자 사용자 ID를 반환한다.
func (s *Service) ValidateSession(ctx context.Context, token string) (string, error) {
	if s.cacheSvc == nil {
		return "", newError(CodeInternal, "cache service not configured", nil)
	}
	if token == "" {
		return "", newError(CodeUnauthorized, "missing token", nil)
	}

	sessionHash := tokenDigest(token)
	key := sessionKeyPrefix + sessionHash
	var data sessionData
	found, err := s.cacheSvc.Get(ctx, key, &data)
	if err != nil {
		return "", newError(CodeInternal, "failed to read session", err)
	}
	if !found || data.UserID == "" || time.Now().UTC().After(data.ExpiresAt) {
		_ = s.cacheSvc.Del(ctx, key)
		if data.UserID != "" {
			_, _ = s.cacheSvc.SRem(ctx, userSessionsKeyPrefix+data.UserID, []string{sessionHash})
		}
		return "", newError(CodeUnauthorized, "invalid session", nil)
	}
	return data.UserID, nil
}

func (s *Service) createSession(ctx context.Context, userID string) (*Session, error) {
	if s.cacheSvc == nil {
		return nil, newError(CodeInternal, "cache service not configured", nil)
	}
	if userID == "" {
		return nil, newError(CodeInternal, "userID is empty", nil)
	}

	var token string
	var sessionHash string
	var key string

	for i := 0; i < 3; i++ {
		raw, err := mintToken(sessionTokenPrefix, 32)
		if err != nil {
			return nil, newError(CodeInternal, "failed to generate session token", err)
		}
		hash := tokenDigest(raw)
		k := sessionKeyPrefix + hash

		exists, err := s.cacheSvc.Exists(ctx, k)
		if err != nil {
			return nil, newError(CodeInternal, "failed to check session existence", err)
		}
		if !exists {
			token = raw
			sessionHash = hash
			key = k
			break
		}
	}
	if token == "" {
		return nil, newError(CodeInternal, "failed to allocate unique session token", nil)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.SessionTTL)
	data := sessionData{
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if err := s.cacheSvc.Set(ctx, key, &data, s.cfg.SessionTTL); err != nil {
		return nil, newError(CodeInternal, "failed to store session", err)
	}

	// 유저별 세션 인덱스 유지 (전체 폐기 용도)
	userSessionsKey := userSessionsKeyPrefix + userID
	_, _ = s.cacheSvc.SAdd(ctx, userSessionsKey, []string{sessionHash})
	_ = s.cacheSvc.Expire(ctx, userSessionsKey, s.cfg.UserSessionsTTL)

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// mintToken: prefix가 붙은 URL-safe 랜덤 토큰을 만든다.
// 원문은 클라이언트에게만 전달하고 서버는 다이제스트만 저장한다.
func mintToken(prefix string, byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// tokenDigest: 토큰의 sha256 다이제스트. Valkey 키 구성에 쓴다.
func tokenDigest(token string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(token)))
}

// isUniqueViolation: external_id unique 제약 위반 여부를 판별한다.
func isUniqueViolation(err error) bool {
	if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 23505: unique_violation
	var pqErr *pq.Error
	return stdErrors.As(err, &pqErr) && pqErr.Code == "23505"
}

// RevokeAllSessions: 사용자의 모든 세션을 무효화한다.
func (s *Service) RevokeAllSessions(ctx context.Context, userID string) error {
	if s.cacheSvc == nil || userID == "" {
		return nil
	}

	userSessionsKey := userSessionsKeyPrefix + userID
	hashes, err := s.cacheSvc.SMembers(ctx, userSessionsKey)
	if err != nil {
		return fmt.Errorf("cache smembers failed: %w", err)
	}
	if len(hashes) == 0 {
		_ = s.cacheSvc.Del(ctx, userSessionsKey)
		return nil
	}

	keys := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if h == "" {
			continue
		}
		keys = append(keys, sessionKeyPrefix+h)
	}

	_, _ = s.cacheSvc.DelMany(ctx, keys)
	_ = s.cacheSvc.Del(ctx, userSessionsKey)

	return nil
}
