package leaderboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/domain"
	"github.com/kapu/mathsprint-site-go/internal/game"
	"github.com/kapu/mathsprint-site-go/internal/service/cache"
	"github.com/kapu/mathsprint-site-go/internal/util"
	apperrors "github.com/kapu/mathsprint-site-go/pkg/errors"
)

const (
	leaderboardKeyPrefix = "lb:board:"
	statsKeyPrefix       = "lb:stats:"
)

// Service: 게임 세션 제출과 리더보드 집계를 담당하는 서비스.
// 조회 결과는 Valkey에 짧은 TTL로 캐싱하고, 세션이 제출되면 무효화한다.
type Service struct {
	repo     *Repository
	cacheSvc *cache.Service
	logger   *slog.Logger
}

// NewService: 리더보드 서비스를 생성한다. cacheSvc는 nil이어도 동작한다(캐싱 생략).
func NewService(repo *Repository, cacheSvc *cache.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		cacheSvc: cacheSvc,
		logger:   logger,
	}
}

// SubmitSession: 완료된 게임 결과를 검증 후 저장한다.
// 정답률은 클라이언트 값을 받지 않고 서버가 재계산한다.
func (s *Service) SubmitSession(ctx context.Context, userID string, input domain.SessionInput) (*domain.GameSession, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("missing user")
	}

	if input.GameType == "" {
		input.GameType = domain.GameTypeMath
	}
	if input.GameType != domain.GameTypeMath {
		return nil, apperrors.NewValidationError("gameType", "unknown game type")
	}
	if input.Score < 0 {
		return nil, apperrors.NewValidationError("score", "must not be negative")
	}
	if input.LevelReached < 1 {
		return nil, apperrors.NewValidationError("levelReached", "must be at least 1")
	}
	if input.CorrectAnswers < 0 || input.TotalQuestions < 0 {
		return nil, apperrors.NewValidationError("correctAnswers", "counts must not be negative")
	}
	if input.CorrectAnswers > input.TotalQuestions {
		return nil, apperrors.NewValidationError("correctAnswers", "cannot exceed totalQuestions")
	}
	if input.GameDuration <= 0 {
		input.GameDuration = int(constants.GameRules.RoundDuration.Seconds())
	}
	if input.TimePlayed < 0 {
		return nil, apperrors.NewValidationError("timePlayed", "must not be negative")
	}
	// 클라이언트 시계 오차로 라운드 길이를 넘긴 값은 클램핑한다.
	if input.TimePlayed > input.GameDuration {
		input.TimePlayed = input.GameDuration
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("check user", err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user", userID)
	}

	model := &sessionModel{
		ID:                 uuid.NewString(),
		UserID:             userID,
		GameType:           input.GameType,
		Score:              input.Score,
		LevelReached:       input.LevelReached,
		CorrectAnswers:     input.CorrectAnswers,
		TotalQuestions:     input.TotalQuestions,
		AccuracyPercentage: game.Accuracy(input.CorrectAnswers, input.TotalQuestions),
		TimePlayed:         input.TimePlayed,
		GameDuration:       input.GameDuration,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, model); err != nil {
		return nil, apperrors.NewPersistenceError("insert session", err)
	}

	s.invalidate(ctx, input.GameType, userID)

	return toSession(model), nil
}

// GlobalLeaderboard: 세션 단위 상위 기록을 반환한다. 한 유저의 세션
// 여러 건이 나란히 오를 수 있다.
// limit이 0 이하면 기본값, 상한을 넘으면 상한으로 클램핑한다.
// gameType이 비어 있으면 기본 게임 타입을 조회한다.
// 동점자는 같은 순위를 받고 다음 순위는 건너뛴다.
func (s *Service) GlobalLeaderboard(ctx context.Context, limit int, gameType string) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = constants.LeaderboardConfig.DefaultLimit
	}
	limit = util.Min(limit, constants.LeaderboardConfig.MaxLimit)

	if gameType == "" {
		gameType = domain.GameTypeMath
	}

	entries, err := s.loadBoard(ctx, gameType)
	if err != nil {
		return nil, err
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// loadBoard: 캐시에서 전체 보드(상한 크기)를 읽고, 없으면 DB에서 조회해 채운다.
func (s *Service) loadBoard(ctx context.Context, gameType string) ([]domain.LeaderboardEntry, error) {
	cacheKey := leaderboardKeyPrefix + gameType

	if s.cacheSvc != nil {
		var cached []domain.LeaderboardEntry
		found, err := s.cacheSvc.Get(ctx, cacheKey, &cached)
		if err == nil && found {
			return cached, nil
		}
		if err != nil {
			s.logger.Warn("Leaderboard cache read failed", slog.Any("error", err))
		}
	}

	rows, err := s.repo.TopSessions(ctx, gameType, constants.LeaderboardConfig.MaxLimit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query leaderboard", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		rank := i + 1
		if i > 0 && row.Score == rows[i-1].Score {
			rank = entries[i-1].Rank
		}
		entries = append(entries, domain.LeaderboardEntry{
			Rank: rank,
			User: domain.PublicProfile{
				ID:          row.UserID,
				DisplayName: row.DisplayName,
				AvatarURL:   row.AvatarURL,
			},
			Score:              row.Score,
			LevelReached:       row.LevelReached,
			AccuracyPercentage: row.AccuracyPercentage,
			GameType:           row.GameType,
			CreatedAt:          row.CreatedAt,
		})
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.Set(ctx, cacheKey, entries, constants.LeaderboardConfig.CacheTTL); err != nil {
			s.logger.Warn("Leaderboard cache write failed", slog.Any("error", err))
		}
	}

	return entries, nil
}

// UserStats: 유저의 최고 점수, 순위, 게임 수, 평균 정답률을 반환한다.
// 순위는 최고 점수보다 높은 세션 수 + 1이다. 기록이 없으면 순위 0.
func (s *Service) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("userId", "must not be empty")
	}

	cacheKey := statsKeyPrefix + userID
	if s.cacheSvc != nil {
		var cached domain.UserStats
		found, err := s.cacheSvc.Get(ctx, cacheKey, &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("check user", err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user", userID)
	}

	row, err := s.repo.UserStats(ctx, domain.GameTypeMath, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query user stats", err)
	}

	stats := &domain.UserStats{
		UserID:      userID,
		BestScore:   row.BestScore,
		TotalGames:  row.TotalGames,
		AvgAccuracy: util.Round2(row.AvgAccuracy),
	}

	if row.TotalGames > 0 {
		above, err := s.repo.CountSessionsAbove(ctx, domain.GameTypeMath, row.BestScore)
		if err != nil {
			return nil, apperrors.NewPersistenceError("query rank", err)
		}
		stats.Rank = int(above) + 1
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.Set(ctx, cacheKey, stats, constants.CacheTTL.UserStats); err != nil {
			s.logger.Warn("User stats cache write failed", slog.Any("error", err))
		}
	}

	return stats, nil
}

// RegisteredUsers: 등록 유저를 게임 수/최고 점수와 함께 최고 점수 내림차순으로 반환한다.
// limit은 리더보드와 같은 규칙으로 클램핑한다.
func (s *Service) RegisteredUsers(ctx context.Context, limit int) ([]domain.RegisteredUser, error) {
	if limit <= 0 {
		limit = constants.LeaderboardConfig.DefaultLimit
	}
	limit = util.Min(limit, constants.LeaderboardConfig.MaxLimit)

	rows, err := s.repo.RegisteredUsers(ctx, domain.GameTypeMath, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query registered users", err)
	}

	users := make([]domain.RegisteredUser, 0, len(rows))
	for _, row := range rows {
		users = append(users, domain.RegisteredUser{
			User: domain.PublicProfile{
				ID:          row.ID,
				DisplayName: row.DisplayName,
				AvatarURL:   row.AvatarURL,
			},
			TotalGames: row.TotalGames,
			BestScore:  row.BestScore,
		})
	}
	return users, nil
}

// invalidate: 세션 제출 후 관련 캐시를 제거한다.
func (s *Service) invalidate(ctx context.Context, gameType, userID string) {
	if s.cacheSvc == nil {
		return
	}
	if _, err := s.cacheSvc.DelMany(ctx, []string{
		leaderboardKeyPrefix + gameType,
		statsKeyPrefix + userID,
	}); err != nil {
		s.logger.Warn("Leaderboard cache invalidation failed", slog.Any("error", err))
	}
}
