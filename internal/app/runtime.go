package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kapu/mathsprint-site-go/internal/config"
	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/server"
	"github.com/kapu/mathsprint-site-go/internal/service/cache"
	"github.com/kapu/mathsprint-site-go/internal/service/database"
)

// Runtime: 조립이 끝난 서버 런타임이다. Close는 역순으로 자원을 정리한다.
type Runtime struct {
	Server *http.Server

	db    *database.PostgresService
	cache *cache.Service

	logger *slog.Logger
}

// BuildRuntime: 설정으로부터 전체 의존성을 조립한다.
// 실패 시 이미 연 자원은 정리하고 에러를 반환한다.
func BuildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	buildCtx, cancel := context.WithTimeout(ctx, constants.AppTimeout.Build)
	defer cancel()

	cacheSvc, err := ProvideCacheService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}

	db, err := ProvidePostgresService(cfg, logger)
	if err != nil {
		if closeErr := cacheSvc.Close(); closeErr != nil {
			logger.Warn("cache_close_failed", "error", closeErr)
		}
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	cleanup := func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("database_close_failed", "error", closeErr)
		}
		if closeErr := cacheSvc.Close(); closeErr != nil {
			logger.Warn("cache_close_failed", "error", closeErr)
		}
	}

	identitySvc, err := ProvideIdentityService(buildCtx, cfg, db, cacheSvc, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	leaderboardSvc, err := ProvideLeaderboardService(buildCtx, db, cacheSvc, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	contentStore, err := ProvideContentStore(cfg, logger)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("content store init failed: %w", err)
	}

	handler := ProvideAPIHandler(identitySvc, leaderboardSvc, contentStore, db, logger)
	router := newAPIRouter(ctx, cfg, handler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.WrapH2C(router),
		ReadHeaderTimeout: constants.ServerTimeout.ReadHeader,
		ReadTimeout:       constants.ServerTimeout.Read,
		WriteTimeout:      constants.ServerTimeout.Write,
		IdleTimeout:       constants.ServerTimeout.Idle,
		MaxHeaderBytes:    constants.ServerTimeout.MaxHeaderBytes,
	}

	return &Runtime{
		Server: httpServer,
		db:     db,
		cache:  cacheSvc,
		logger: logger,
	}, nil
}

// Run: HTTP 서버를 시작하고 컨텍스트 취소 시 graceful shutdown 한다.
func (r *Runtime) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server_listening", "addr", r.Server.Addr)
		if err := r.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerTimeout.Shutdown)
	defer cancel()

	if err := r.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return <-errCh
}

// Close: 데이터베이스와 캐시 연결을 정리한다.
func (r *Runtime) Close() {
	if err := r.db.Close(); err != nil {
		r.logger.Warn("database_close_failed", "error", err)
	}
	if err := r.cache.Close(); err != nil {
		r.logger.Warn("cache_close_failed", "error", err)
	}
}
