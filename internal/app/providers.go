package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kapu/mathsprint-site-go/internal/config"
	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/content"
	"github.com/kapu/mathsprint-site-go/internal/game"
	"github.com/kapu/mathsprint-site-go/internal/server"
	"github.com/kapu/mathsprint-site-go/internal/service/cache"
	"github.com/kapu/mathsprint-site-go/internal/service/database"
	"github.com/kapu/mathsprint-site-go/internal/service/identity"
	"github.com/kapu/mathsprint-site-go/internal/service/leaderboard"
	"github.com/kapu/mathsprint-site-go/internal/service/system"
)

// ProvideCacheService: Valkey 캐시 서비스를 생성한다.
func ProvideCacheService(cfg *config.Config, logger *slog.Logger) (*cache.Service, error) {
	return cache.NewCacheService(cache.Config{
		Host:     cfg.Valkey.Host,
		Port:     cfg.Valkey.Port,
		Password: cfg.Valkey.Password,
		DB:       cfg.Valkey.DB,
	}, logger)
}

// ProvidePostgresService: PostgreSQL 데이터베이스 서비스를 생성한다.
func ProvidePostgresService(cfg *config.Config, logger *slog.Logger) (*database.PostgresService, error) {
	return database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
}

// ProvideIdentityService: OAuth 공급자와 세션 기반 인증 서비스를 생성한다.
func ProvideIdentityService(
	ctx context.Context,
	cfg *config.Config,
	db *database.PostgresService,
	cacheSvc *cache.Service,
	logger *slog.Logger,
) (*identity.Service, error) {
	provider := identity.NewProvider(identity.ProviderConfig{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		AuthURL:      cfg.OAuth.AuthURL,
		TokenURL:     cfg.OAuth.TokenURL,
		UserInfoURL:  cfg.OAuth.UserInfoURL,
		RedirectURL:  cfg.OAuth.RedirectURL,
		Scopes:       cfg.OAuth.Scopes,
	})

	svc, err := identity.NewService(ctx, db.GetGormDB(), cacheSvc, provider, logger, identity.Config{
		SessionTTL:      cfg.Session.TTL,
		StateTTL:        constants.CacheTTL.OAuthState,
		UserSessionsTTL: cfg.Session.TTL + 24*time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("identity service init failed: %w", err)
	}
	return svc, nil
}

// ProvideLeaderboardService: 게임 세션 저장소와 리더보드 서비스를 생성한다.
func ProvideLeaderboardService(
	ctx context.Context,
	db *database.PostgresService,
	cacheSvc *cache.Service,
	logger *slog.Logger,
) (*leaderboard.Service, error) {
	repo, err := leaderboard.NewRepository(ctx, db.GetGormDB())
	if err != nil {
		return nil, fmt.Errorf("leaderboard repository init failed: %w", err)
	}
	return leaderboard.NewService(repo, cacheSvc, logger), nil
}

// ProvideContentStore: 마크다운 콘텐츠 저장소를 생성하고 초기 로드한다.
func ProvideContentStore(cfg *config.Config, logger *slog.Logger) (*content.Store, error) {
	return content.NewStore(cfg.Content.Dir, logger)
}

// ProvideAPIHandler: HTTP API 핸들러를 조립한다.
func ProvideAPIHandler(
	identitySvc *identity.Service,
	leaderboardSvc *leaderboard.Service,
	contentStore *content.Store,
	db *database.PostgresService,
	logger *slog.Logger,
) *server.APIHandler {
	return server.NewAPIHandler(
		identitySvc,
		leaderboardSvc,
		contentStore,
		game.NewGenerator(),
		db,
		system.NewCollector(),
		logger,
	)
}
