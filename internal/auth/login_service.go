package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/database/models"
	"github.com/akira-dev/gif-bed/database/repo/accounts"
	"github.com/akira-dev/gif-bed/utils"
	cryptopackage "github.com/akira-dev/gif-bed/utils/crypto"
)

const sessionTokenBytes = 32

// newSessionToken 生成不透明会话令牌，URL 安全且无填充字符
func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ErrInvalidCredentials 邮箱或密码错误，两种情况不作区分
var ErrInvalidCredentials = errors.New("invalid email or password")

// LoginResult 登录成功后返回给客户端的数据
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// LoginService 注册、登录、登出
type LoginService struct {
	cfg          *config.Config
	accountsRepo *accounts.Repository
	sessionsRepo *accounts.SessionRepository
}

// NewLoginService 创建登录服务
func NewLoginService(cfg *config.Config, accountsRepo *accounts.Repository, sessionsRepo *accounts.SessionRepository) *LoginService {
	return &LoginService{
		cfg:          cfg,
		accountsRepo: accountsRepo,
		sessionsRepo: sessionsRepo,
	}
}

// Register 创建新用户，邮箱重复返回 accounts.ErrEmailTaken
func (s *LoginService) Register(email, password, name string) (*models.User, error) {
	hash, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: hash,
	}
	if err := s.accountsRepo.CreateUser(user); err != nil {
		return nil, err
	}

	log.Printf("[Auth] User registered: %s", utils.SanitizeLogEmail(email))
	return user, nil
}

// Login 校验凭证并签发不透明会话令牌
// 数据库只保存令牌摘要，明文仅此一次返回给客户端
func (s *LoginService) Login(email, password string) (*LoginResult, error) {
	user, err := s.accountsRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.SessionTTL)
	if err := s.sessionsRepo.CreateSession(user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[Auth] User logged in: %s", utils.SanitizeLogEmail(email))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout 删除令牌对应的会话，令牌不存在时同样视为成功
func (s *LoginService) Logout(token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionsRepo.DeleteSessionByToken(token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
