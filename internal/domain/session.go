package domain

import "time"

// GameTypeMath: 현재 서비스 중인 유일한 게임 타입
const GameTypeMath = "math"

// GameSession: 완료된 한 판의 불변 기록. 저장 이후 절대 수정되지 않는다.
type GameSession struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	GameType           string    `json:"gameType"`
	Score              int       `json:"score"`
	LevelReached       int       `json:"levelReached"`
	CorrectAnswers     int       `json:"correctAnswers"`
	TotalQuestions     int       `json:"totalQuestions"`
	AccuracyPercentage float64   `json:"accuracyPercentage"`
	TimePlayed         int       `json:"timePlayed"`   // 초 단위
	GameDuration       int       `json:"gameDuration"` // 라운드 제한 시간 (초)
	CreatedAt          time.Time `json:"createdAt"`
}

// SessionInput: 게임 종료 시 클라이언트가 제출하는 결과 스냅샷.
// accuracy는 받지 않는다. 서버가 재계산한다.
type SessionInput struct {
	GameType       string `json:"gameType"`
	Score          int    `json:"score"`
	LevelReached   int    `json:"levelReached"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	TimePlayed     int    `json:"timePlayed"`
	GameDuration   int    `json:"gameDuration"`
}
