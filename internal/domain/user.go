// Package domain: 서비스 계층 간에 공유되는 핵심 도메인 타입 정의
package domain

import "time"

// User: 등록된 플레이어. 내부 ID는 외부 인증 공급자 ID(ExternalID)와 별개다.
type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"-"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

// PublicProfile: 리더보드 등 공개 표면에 노출 가능한 필드만 담는다.
type PublicProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// Public: 공개 프로필 뷰를 반환한다.
func (u *User) Public() PublicProfile {
	if u == nil {
		return PublicProfile{}
	}
	return PublicProfile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}
