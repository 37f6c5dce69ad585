package leaderboard

import (
	"time"

	"github.com/kapu/mathsprint-site-go/internal/domain"
)

// sessionModel: game_sessions 테이블 매핑. 기록은 불변이다.
type sessionModel struct {
	ID                 string  `gorm:"primaryKey;column:id"`
	UserID             string  `gorm:"index;column:user_id"`
	GameType           string  `gorm:"index;column:game_type"`
	Score              int     `gorm:"index;column:score"`
	LevelReached       int     `gorm:"column:level_reached"`
	CorrectAnswers     int     `gorm:"column:correct_answers"`
	TotalQuestions     int     `gorm:"column:total_questions"`
	AccuracyPercentage float64 `gorm:"column:accuracy_percentage"`
	TimePlayed         int     `gorm:"column:time_played"`
	GameDuration       int     `gorm:"column:game_duration"`
	CreatedAt          time.Time
}

func (sessionModel) TableName() string { return "game_sessions" }

func toSession(m *sessionModel) *domain.GameSession {
	if m == nil {
		return nil
	}
	return &domain.GameSession{
		ID:                 m.ID,
		UserID:             m.UserID,
		GameType:           m.GameType,
		Score:              m.Score,
		LevelReached:       m.LevelReached,
		CorrectAnswers:     m.CorrectAnswers,
		TotalQuestions:     m.TotalQuestions,
		AccuracyPercentage: m.AccuracyPercentage,
		TimePlayed:         m.TimePlayed,
		GameDuration:       m.GameDuration,
		CreatedAt:          m.CreatedAt,
	}
}

// entryRow: 리더보드 조회 결과의 평탄화된 행 (세션 + 공개 프로필)
type entryRow struct {
	SessionID          string    `gorm:"column:id"`
	UserID             string    `gorm:"column:user_id"`
	Score              int       `gorm:"column:score"`
	LevelReached       int       `gorm:"column:level_reached"`
	AccuracyPercentage float64   `gorm:"column:accuracy_percentage"`
	GameType           string    `gorm:"column:game_type"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	DisplayName        string    `gorm:"column:display_name"`
	AvatarURL          *string   `gorm:"column:avatar_url"`
}

// registeredUserRow: 유저 명단 조회 결과 행
type registeredUserRow struct {
	ID          string  `gorm:"column:id"`
	DisplayName string  `gorm:"column:display_name"`
	AvatarURL   *string `gorm:"column:avatar_url"`
	TotalGames  int     `gorm:"column:total_games"`
	BestScore   int     `gorm:"column:best_score"`
}

// statsRow: 유저 집계 통계 행
type statsRow struct {
	TotalGames  int     `gorm:"column:total_games"`
	BestScore   int     `gorm:"column:best_score"`
	AvgAccuracy float64 `gorm:"column:avg_accuracy"`
}
