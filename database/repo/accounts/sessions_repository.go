package accounts

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/akira-dev/gif-bed/database/models"
	"gorm.io/gorm"
)

// SessionRepository 会话仓库 - 封装所有会话相关的数据库操作
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建新的会话仓库
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// hashToken 令牌入库前做 SHA-256，泄库时拿不到可用令牌
func hashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CreateSession 创建会话记录
func (r *SessionRepository) CreateSession(userID uint, token string, expiresAt time.Time) error {
	session := &models.Session{
		UserID:    userID,
		Token:     hashToken(token),
		ExpiresAt: expiresAt,
	}
	return r.db.Create(session).Error
}

// GetValidSession 通过令牌获取未过期的会话，不存在或已过期时返回 nil
func (r *SessionRepository) GetValidSession(token string) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("token = ? AND expires_at > ?", hashToken(token), time.Now()).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// DeleteSessionByToken 通过令牌删除会话（登出）
func (r *SessionRepository) DeleteSessionByToken(token string) error {
	return r.db.Where("token = ?", hashToken(token)).Delete(&models.Session{}).Error
}

// DeleteSessionsByUser 删除用户的全部会话，返回删除行数
func (r *SessionRepository) DeleteSessionsByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// PurgeExpiredSessions 清理已过期会话，返回删除行数
func (r *SessionRepository) PurgeExpiredSessions() (int64, error) {
	result := r.db.Unscoped().Where("expires_at <= ?", time.Now()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// CountExpiredSessions 统计已过期会话数
func (r *SessionRepository) CountExpiredSessions(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Session{}).Where("expires_at <= ?", now).Count(&count).Error
	return count, err
}
