package leaderboard

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository: game_sessions 테이블에 대한 영속성 계층.
// 윈도우 함수 기반 쿼리는 PostgreSQL과 sqlite(테스트) 양쪽에서 동작한다.
type Repository struct {
	db *gorm.DB
}

// NewRepository: 리포지토리를 생성하고 game_sessions 테이블을 준비한다.
func NewRepository(ctx context.Context, db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db must not be nil")
	}

	r := &Repository{db: db}
	if err := r.createTablesIfNotExist(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) createTablesIfNotExist(ctx context.Context) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS game_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			game_type TEXT NOT NULL,
			score INTEGER NOT NULL,
			level_reached INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			accuracy_percentage REAL NOT NULL,
			time_played INTEGER NOT NULL,
			game_duration INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create game_sessions table: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_game_sessions_type_score
		ON game_sessions (game_type, score DESC)
	`).Error; err != nil {
		return fmt.Errorf("failed to create game_sessions index: %w", err)
	}

	return nil
}

// Insert: 세션 기록을 저장한다.
func (r *Repository) Insert(ctx context.Context, m *sessionModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert session failed: %w", err)
	}
	return nil
}

// TopSessions: 게임 타입별 세션을 점수 내림차순으로 조회한다.
// 보드는 세션 단위라 한 유저의 기록 여러 건이 함께 오를 수 있다.
// 동점 시 먼저 기록된 세션이 앞선다.
func (r *Repository) TopSessions(ctx context.Context, gameType string, limit int) ([]entryRow, error) {
	var rows []entryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT gs.id, gs.user_id, gs.score, gs.level_reached, gs.accuracy_percentage,
		       gs.game_type, gs.created_at, u.display_name, u.avatar_url
		FROM game_sessions gs
		JOIN users u ON u.id = gs.user_id
		WHERE gs.game_type = ?
		ORDER BY gs.score DESC, gs.created_at ASC, gs.id ASC
		LIMIT ?
	`, gameType, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top sessions query failed: %w", err)
	}
	return rows, nil
}

// CountSessionsAbove: 주어진 점수보다 높은 세션 수를 센다. (랭킹 계산용)
func (r *Repository) CountSessionsAbove(ctx context.Context, gameType string, score int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("game_type = ? AND score > ?", gameType, score).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count sessions query failed: %w", err)
	}
	return count, nil
}

// UserStats: 유저의 세션 수, 최고 점수, 평균 정답률을 집계한다.
func (r *Repository) UserStats(ctx context.Context, gameType, userID string) (*statsRow, error) {
	var row statsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)                        AS total_games,
		       COALESCE(MAX(score), 0)         AS best_score,
		       COALESCE(AVG(accuracy_percentage), 0) AS avg_accuracy
		FROM game_sessions
		WHERE game_type = ? AND user_id = ?
	`, gameType, userID).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("user stats query failed: %w", err)
	}
	return &row, nil
}

// UserExists: users 테이블에 해당 ID가 존재하는지 확인한다.
func (r *Repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("users").
		Where("id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("user exists query failed: %w", err)
	}
	return count > 0, nil
}

// RegisteredUsers: 등록 유저를 게임 수/최고 점수와 함께 조회한다.
// 최고 점수 내림차순, 동점 시 가입 시각 오름차순. 유저당 정확히 1행을 보장한다.
func (r *Repository) RegisteredUsers(ctx context.Context, gameType string, limit int) ([]registeredUserRow, error) {
	var rows []registeredUserRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id, u.display_name, u.avatar_url,
		       COUNT(gs.id)             AS total_games,
		       COALESCE(MAX(gs.score), 0) AS best_score
		FROM users u
		LEFT JOIN game_sessions gs ON gs.user_id = u.id AND gs.game_type = ?
		GROUP BY u.id, u.display_name, u.avatar_url, u.created_at
		ORDER BY best_score DESC, u.created_at ASC, u.id ASC
		LIMIT ?
	`, gameType, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("registered users query failed: %w", err)
	}
	return rows, nil
}
