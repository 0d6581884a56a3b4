package accounts

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akira-dev/gif-bed/database/models"
)

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Session{})
	require.NoError(t, err)

	return db
}

// TestCreateUser 创建用户与邮箱唯一性
func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	user := &models.User{Email: "alice@example.com", Name: "Alice", Password: "hash"}
	assert.NoError(t, repo.CreateUser(user))
	assert.NotZero(t, user.ID)

	dup := &models.User{Email: "alice@example.com", Name: "Alice2", Password: "hash2"}
	err := repo.CreateUser(dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// 另一个写入方绕过本仓库先落库（并发注册的竞争场景），输家同样拿到 ErrEmailTaken
	require.NoError(t, db.Create(&models.User{Email: "race@example.com", Name: "First", Password: "hash"}).Error)
	err = repo.CreateUser(&models.User{Email: "race@example.com", Name: "Second", Password: "hash2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

// TestGetUserByEmail 按邮箱查询
func TestGetUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.CreateUser(&models.User{Email: "bob@example.com", Name: "Bob", Password: "hash"}))

	user, err := repo.GetUserByEmail("bob@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)

	_, err = repo.GetUserByEmail("missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// TestGetUserByID 按 ID 查询
func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	user := &models.User{Email: "carol@example.com", Name: "Carol", Password: "hash"}
	require.NoError(t, repo.CreateUser(user))

	found, err := repo.GetUserByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = repo.GetUserByID(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// TestSessionLifecycle 会话创建、查询、登出与清理
func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	accountsRepo := NewRepository(db)
	sessionsRepo := NewSessionRepository(db)

	user := &models.User{Email: "dave@example.com", Name: "Dave", Password: "hash"}
	require.NoError(t, accountsRepo.CreateUser(user))

	token := "plaintext-session-token"
	require.NoError(t, sessionsRepo.CreateSession(user.ID, token, time.Now().Add(time.Hour)))

	t.Run("token stored hashed", func(t *testing.T) {
		var session models.Session
		require.NoError(t, db.First(&session).Error)
		assert.NotEqual(t, token, session.Token)
		assert.Len(t, session.Token, 64) // sha256 hex
	})

	t.Run("valid token resolves", func(t *testing.T) {
		session, err := sessionsRepo.GetValidSession(token)
		assert.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, user.ID, session.UserID)
	})

	t.Run("unknown token returns nil", func(t *testing.T) {
		session, err := sessionsRepo.GetValidSession("no-such-token")
		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("logout deletes session", func(t *testing.T) {
		assert.NoError(t, sessionsRepo.DeleteSessionByToken(token))
		session, err := sessionsRepo.GetValidSession(token)
		assert.NoError(t, err)
		assert.Nil(t, session)
	})
}

// TestExpiredSessions 过期会话不可用且可被清理
func TestExpiredSessions(t *testing.T) {
	db := setupTestDB(t)
	accountsRepo := NewRepository(db)
	sessionsRepo := NewSessionRepository(db)

	user := &models.User{Email: "eve@example.com", Name: "Eve", Password: "hash"}
	require.NoError(t, accountsRepo.CreateUser(user))

	expired := "expired-token"
	require.NoError(t, sessionsRepo.CreateSession(user.ID, expired, time.Now().Add(-time.Minute)))
	valid := "valid-token"
	require.NoError(t, sessionsRepo.CreateSession(user.ID, valid, time.Now().Add(time.Hour)))

	session, err := sessionsRepo.GetValidSession(expired)
	assert.NoError(t, err)
	assert.Nil(t, session)

	count, err := sessionsRepo.CountExpiredSessions(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := sessionsRepo.PurgeExpiredSessions()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// 未过期的会话不受影响
	session, err = sessionsRepo.GetValidSession(valid)
	assert.NoError(t, err)
	assert.NotNil(t, session)
}
