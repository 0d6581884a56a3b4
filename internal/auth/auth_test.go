package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/database/models"
	"github.com/akira-dev/gif-bed/database/repo/accounts"
)

func setupServices(t *testing.T) (*LoginService, *Authenticator, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}))

	cfg := &config.Config{SessionTTL: time.Hour}
	accountsRepo := accounts.NewRepository(db)
	sessionsRepo := accounts.NewSessionRepository(db)

	return NewLoginService(cfg, accountsRepo, sessionsRepo),
		NewAuthenticator(accountsRepo, sessionsRepo),
		db
}

// TestNewSessionToken 令牌非空、互不相同且 URL 安全
func TestNewSessionToken(t *testing.T) {
	token1, err := newSessionToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token1)
	assert.NotContains(t, token1, "=")

	token2, err := newSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

// TestRegisterAndLogin 注册登录全流程
func TestRegisterAndLogin(t *testing.T) {
	loginService, authenticator, _ := setupServices(t)

	user, err := loginService.Register("alice@example.com", "secret-password", "Alice")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	// 密码散列入库，不保存明文
	assert.NotEqual(t, "secret-password", user.Password)

	result, err := loginService.Login("alice@example.com", "secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	// 签发的令牌可通过认证
	authResult, err := authenticator.Authenticate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authResult.User.ID)
}

// TestLogin_InvalidCredentials 错误凭证
func TestLogin_InvalidCredentials(t *testing.T) {
	loginService, _, _ := setupServices(t)

	_, err := loginService.Register("bob@example.com", "correct-password", "Bob")
	require.NoError(t, err)

	_, err = loginService.Login("bob@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 不存在的邮箱与密码错误返回同一错误
	_, err = loginService.Login("missing@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestRegister_DuplicateEmail 重复邮箱
func TestRegister_DuplicateEmail(t *testing.T) {
	loginService, _, _ := setupServices(t)

	_, err := loginService.Register("carol@example.com", "password-one", "Carol")
	require.NoError(t, err)

	_, err = loginService.Register("carol@example.com", "password-two", "Carol2")
	assert.ErrorIs(t, err, accounts.ErrEmailTaken)
}

// TestAuthenticate_ErrorKinds 认证失败的各种情况
func TestAuthenticate_ErrorKinds(t *testing.T) {
	loginService, authenticator, db := setupServices(t)

	t.Run("empty token", func(t *testing.T) {
		_, err := authenticator.Authenticate("")
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := authenticator.Authenticate("no-such-token")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired session", func(t *testing.T) {
		user, err := loginService.Register("dave@example.com", "some-password", "Dave")
		require.NoError(t, err)

		sessionsRepo := accounts.NewSessionRepository(db)
		require.NoError(t, sessionsRepo.CreateSession(user.ID, "expired-token", time.Now().Add(-time.Minute)))

		_, err = authenticator.Authenticate("expired-token")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("dangling session", func(t *testing.T) {
		sessionsRepo := accounts.NewSessionRepository(db)
		require.NoError(t, sessionsRepo.CreateSession(99999, "dangling-token", time.Now().Add(time.Hour)))

		_, err := authenticator.Authenticate("dangling-token")
		assert.ErrorIs(t, err, ErrUserMissing)

		// 悬挂会话被顺带吊销
		var count int64
		require.NoError(t, db.Model(&models.Session{}).Where("user_id = ?", 99999).Count(&count).Error)
		assert.Zero(t, count)
	})
}

// TestLogout 登出后令牌失效
func TestLogout(t *testing.T) {
	loginService, authenticator, _ := setupServices(t)

	_, err := loginService.Register("eve@example.com", "some-password", "Eve")
	require.NoError(t, err)
	result, err := loginService.Login("eve@example.com", "some-password")
	require.NoError(t, err)

	require.NoError(t, loginService.Logout(result.Token))

	_, err = authenticator.Authenticate(result.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// 重复登出幂等
	assert.NoError(t, loginService.Logout(result.Token))
}
