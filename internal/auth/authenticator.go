package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/akira-dev/gif-bed/database/models"
	"github.com/akira-dev/gif-bed/database/repo/accounts"
)

// 认证失败的错误种类，handler 层映射到各自的响应
var (
	// ErrNoToken 请求未携带令牌
	ErrNoToken = errors.New("authentication required")

	// ErrInvalidSession 令牌不存在或会话已过期
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrUserMissing 会话存在但用户已不存在（悬挂会话）
	ErrUserMissing = errors.New("user not found")

	// ErrAuthFailed 存储层意外错误
	ErrAuthFailed = errors.New("authentication failed")
)

// Result 认证结果，显式传递而不是挂在共享请求对象上
type Result struct {
	User    *models.User
	Session *models.Session
}

// Authenticator 会话认证器：令牌 → 未过期会话 → 用户
type Authenticator struct {
	accountsRepo *accounts.Repository
	sessionsRepo *accounts.SessionRepository
}

// NewAuthenticator 创建会话认证器
func NewAuthenticator(accountsRepo *accounts.Repository, sessionsRepo *accounts.SessionRepository) *Authenticator {
	return &Authenticator{
		accountsRepo: accountsRepo,
		sessionsRepo: sessionsRepo,
	}
}

// Authenticate 校验 bearer 令牌并解析出用户与会话
func (a *Authenticator) Authenticate(token string) (*Result, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	session, err := a.sessionsRepo.GetValidSession(token)
	if err != nil {
		log.Printf("[Auth] Session lookup failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if session == nil || session.IsExpired(time.Now()) {
		return nil, ErrInvalidSession
	}

	user, err := a.accountsRepo.GetUserByID(session.UserID)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			// 用户已不存在，顺手吊销其全部悬挂会话
			if _, derr := a.sessionsRepo.DeleteSessionsByUser(session.UserID); derr != nil {
				log.Printf("[Auth] Failed to revoke sessions of missing user %d: %v", session.UserID, derr)
			}
			return nil, ErrUserMissing
		}
		log.Printf("[Auth] User lookup failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	return &Result{User: user, Session: session}, nil
}
