package models

import (
	"time"

	"gorm.io/gorm"
)

// Session 登录会话记录
// Token 列存储签发令牌的 SHA-256，明文令牌只在登录响应中出现一次
type Session struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"foreignKey:UserID"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// IsExpired 检查会话是否已过期
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
