package identity

import (
	"time"

	"github.com/kapu/mathsprint-site-go/internal/domain"
)

// userModel: users 테이블 매핑 (external_id는 OAuth 제공자가 부여한 식별자)
type userModel struct {
	ID          string  `gorm:"primaryKey;column:id"`
	ExternalID  string  `gorm:"uniqueIndex;column:external_id"`
	Email       string  `gorm:"column:email"`
	DisplayName string  `gorm:"column:display_name"`
	AvatarURL   *string `gorm:"column:avatar_url"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (userModel) TableName() string { return "users" }

func toUser(m *userModel) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		AvatarURL:   m.AvatarURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
