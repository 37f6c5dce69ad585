package server

import (
	"log/slog"
	"time"

	"github.com/kapu/mathsprint-site-go/internal/content"
	"github.com/kapu/mathsprint-site-go/internal/game"
	"github.com/kapu/mathsprint-site-go/internal/service/database"
	"github.com/kapu/mathsprint-site-go/internal/service/identity"
	"github.com/kapu/mathsprint-site-go/internal/service/leaderboard"
	"github.com/kapu/mathsprint-site-go/internal/service/system"
)

// APIHandler: 사이트 API 요청을 처리하는 핸들러입니다.
// 핸들러 메서드는 도메인별 파일로 분리됨:
//   - api_auth.go: OAuth 로그인/로그아웃/세션 조회
//   - api_game.go: 게임 세션 제출 + 문제 출제
//   - api_leaderboard.go: 리더보드/유저 통계/유저 명단
//   - api_content.go: 마케팅 콘텐츠 조회
//   - api_admin.go: 시스템 상태 (API Key 보호)
type APIHandler struct {
	identity    *identity.Service
	leaderboard *leaderboard.Service
	contentSvc  *content.Store
	generator   *game.Generator
	db          *database.PostgresService
	systemStats *system.Collector
	logger      *slog.Logger
	startTime   time.Time
}

// NewAPIHandler: 새로운 API 핸들러를 생성합니다.
func NewAPIHandler(
	identitySvc *identity.Service,
	leaderboardSvc *leaderboard.Service,
	contentSvc *content.Store,
	generator *game.Generator,
	db *database.PostgresService,
	systemSvc *system.Collector,
	logger *slog.Logger,
) *APIHandler {
	if generator == nil {
		generator = game.NewGenerator()
	}
	return &APIHandler{
		identity:    identitySvc,
		leaderboard: leaderboardSvc,
		contentSvc:  contentSvc,
		generator:   generator,
		db:          db,
		systemStats: systemSvc,
		logger:      logger,
		startTime:   time.Now(),
	}
}
