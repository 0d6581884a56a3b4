package gifs

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
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Session{}, &models.Gif{})
	require.NoError(t, err)

	return db
}

func seedGif(t *testing.T, repo *Repository, userID uint, title string, isPublic bool) *models.Gif {
	gif := &models.Gif{
		Title:    title,
		Filename: fmt.Sprintf("1700000000000-%d-%s.gif", userID, title),
		Filepath: "http://localhost:3000/uploads/" + title,
		ShareURL: "http://localhost:3000/g/" + title,
		FileSize: 1024,
		MimeType: "image/gif",
		IsPublic: isPublic,
		UserID:   userID,
	}
	require.NoError(t, repo.SaveGif(gif))
	return gif
}

// TestListGifs_Visibility 可见性分支
func TestListGifs_Visibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	// 用户1：一张公开一张私有；用户2：一张公开一张私有
	seedGif(t, repo, 1, "u1-public", true)
	seedGif(t, repo, 1, "u1-private", false)
	seedGif(t, repo, 2, "u2-public", true)
	seedGif(t, repo, 2, "u2-private", false)

	t.Run("anonymous sees only public", func(t *testing.T) {
		gifs, err := repo.ListGifs(ListFilter{})
		assert.NoError(t, err)
		assert.Len(t, gifs, 2)
		for _, g := range gifs {
			assert.True(t, g.IsPublic)
		}
	})

	t.Run("owner filter on self returns private too", func(t *testing.T) {
		gifs, err := repo.ListGifs(ListFilter{OwnerID: 1, RequesterID: 1})
		assert.NoError(t, err)
		assert.Len(t, gifs, 2)
	})

	t.Run("owner filter on other user returns only public", func(t *testing.T) {
		gifs, err := repo.ListGifs(ListFilter{OwnerID: 2, RequesterID: 1})
		assert.NoError(t, err)
		assert.Len(t, gifs, 1)
		assert.Equal(t, "u2-public", gifs[0].Title)
	})

	t.Run("authenticated without owner filter sees public plus own private", func(t *testing.T) {
		gifs, err := repo.ListGifs(ListFilter{RequesterID: 1})
		assert.NoError(t, err)
		assert.Len(t, gifs, 3)
		for _, g := range gifs {
			assert.True(t, g.IsPublic || g.UserID == 1)
		}
	})
}

// TestListGifs_NewestFirst 列表按创建时间倒序
func TestListGifs_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		gif := seedGif(t, repo, 1, title, true)
		require.NoError(t, db.Model(gif).Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	gifs, err := repo.ListGifs(ListFilter{RequesterID: 1})
	require.NoError(t, err)
	require.Len(t, gifs, 3)
	assert.Equal(t, "third", gifs[0].Title)
	assert.Equal(t, "second", gifs[1].Title)
	assert.Equal(t, "first", gifs[2].Title)
	for i := 1; i < len(gifs); i++ {
		assert.False(t, gifs[i].CreatedAt.After(gifs[i-1].CreatedAt))
	}
}

// TestListGifs_Search 标题子串过滤
func TestListGifs_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seedGif(t, repo, 1, "dancing-cat", true)
	seedGif(t, repo, 1, "sleeping-dog", true)

	gifs, err := repo.ListGifs(ListFilter{Search: "cat", RequesterID: 1})
	assert.NoError(t, err)
	assert.Len(t, gifs, 1)
	assert.Equal(t, "dancing-cat", gifs[0].Title)
}

// TestListOldestGifs 腾退候选按创建时间升序
func TestListOldestGifs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	first := seedGif(t, repo, 1, "oldest", true)
	seedGif(t, repo, 1, "middle", true)
	seedGif(t, repo, 1, "newest", true)

	oldest, err := repo.ListOldestGifs(2)
	assert.NoError(t, err)
	assert.Len(t, oldest, 2)
	assert.Equal(t, first.ID, oldest[0].ID)
}

// TestDeleteGif 删除后记录不可再查询
func TestDeleteGif(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	gif := seedGif(t, repo, 1, "to-delete", true)
	assert.NoError(t, repo.DeleteGif(gif))

	_, err := repo.GetGifByID(gif.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestGetGifByIDAndUser 属主不匹配返回记录不存在
func TestGetGifByIDAndUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	gif := seedGif(t, repo, 1, "owned", true)

	found, err := repo.GetGifByIDAndUser(gif.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, gif.ID, found.ID)

	_, err = repo.GetGifByIDAndUser(gif.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestUpdateShareURLs backfill 重写链接列
func TestUpdateShareURLs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	gif := seedGif(t, repo, 1, "relink", true)

	err := repo.UpdateShareURLs(gif.ID, "https://new.example.com/uploads/x.gif", "https://new.example.com/g/x.gif")
	assert.NoError(t, err)

	updated, err := repo.GetGifByID(gif.ID)
	assert.NoError(t, err)
	assert.Equal(t, "https://new.example.com/uploads/x.gif", updated.Filepath)
	assert.Equal(t, "https://new.example.com/g/x.gif", updated.ShareURL)
}
