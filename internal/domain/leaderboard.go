package domain

import "time"

// LeaderboardEntry: GameSession과 소유자의 공개 프로필을 조인한 읽기 전용 뷰.
// 저장되지 않으며 조회 응답에만 쓰인다.
type LeaderboardEntry struct {
	Rank               int           `json:"rank"`
	User               PublicProfile `json:"user"`
	Score              int           `json:"score"`
	LevelReached       int           `json:"levelReached"`
	AccuracyPercentage float64       `json:"accuracyPercentage"`
	GameType           string        `json:"gameType"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// UserStats: 특정 유저의 집계 통계
type UserStats struct {
	UserID      string  `json:"userId"`
	BestScore   int     `json:"bestScore"`
	Rank        int     `json:"rank"`
	TotalGames  int     `json:"totalGames"`
	AvgAccuracy float64 `json:"avgAccuracy"`
}

// RegisteredUser: 유저 명단 조회용 집계 행 (유저당 정확히 1행)
type RegisteredUser struct {
	User       PublicProfile `json:"user"`
	TotalGames int           `json:"totalGames"`
	BestScore  int           `json:"bestScore"`
}
