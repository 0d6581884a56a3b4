package gifs

import (
	"context"

	"github.com/akira-dev/gif-bed/database/models"
	"gorm.io/gorm"
)

// Repository GIF 仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的 GIF 仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveGif 保存 GIF 记录
func (r *Repository) SaveGif(gif *models.Gif) error {
	return r.db.Create(gif).Error
}

// GetGifByID 通过ID获取 GIF
func (r *Repository) GetGifByID(id uint) (*models.Gif, error) {
	var gif models.Gif
	err := r.db.First(&gif, id).Error
	return &gif, err
}

// GetGifByIDAndUser 通过ID和用户ID获取 GIF
func (r *Repository) GetGifByIDAndUser(id, userID uint) (*models.Gif, error) {
	var gif models.Gif
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&gif).Error
	return &gif, err
}

// GetGifByFilename 通过存储文件名获取 GIF
func (r *Repository) GetGifByFilename(filename string) (*models.Gif, error) {
	var gif models.Gif
	err := r.db.Where("filename = ?", filename).First(&gif).Error
	return &gif, err
}

// ListFilter 列表查询条件
type ListFilter struct {
	Search      string // title 子串匹配
	OwnerID     uint   // 0 表示不过滤属主
	RequesterID uint   // 0 表示匿名请求
}

// ListGifs 按可见性范围查询 GIF 列表，按创建时间倒序
//
// 可见性规则：
//   - 请求者查询自己：公开和私有都返回
//   - 指定其他属主：仅该属主的公开记录
//   - 已登录无属主过滤：公开记录 + 自己的私有记录
//   - 匿名：仅属主有效（user_id > 0）的公开记录
func (r *Repository) ListGifs(filter ListFilter) ([]*models.Gif, error) {
	query := r.db.Model(&models.Gif{})

	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	switch {
	case filter.OwnerID != 0 && filter.OwnerID == filter.RequesterID:
		query = query.Where("user_id = ?", filter.RequesterID)
	case filter.OwnerID != 0:
		query = query.Where("user_id = ? AND is_public = ? AND user_id > 0", filter.OwnerID, true)
	case filter.RequesterID != 0:
		query = query.Where("(is_public = ? AND user_id > 0) OR user_id = ?", true, filter.RequesterID)
	default:
		query = query.Where("is_public = ? AND user_id > 0", true)
	}

	var gifs []*models.Gif
	err := query.Order("created_at DESC").Find(&gifs).Error
	return gifs, err
}

// DeleteGif 删除 GIF 记录（硬删除，文件随后由存储层移除）
func (r *Repository) DeleteGif(gif *models.Gif) error {
	return r.db.Unscoped().Delete(gif).Error
}

// ListOldestGifs 按创建时间升序取最老的若干条记录，磁盘腾退用
func (r *Repository) ListOldestGifs(limit int) ([]*models.Gif, error) {
	var gifs []*models.Gif
	err := r.db.Order("created_at ASC, id ASC").Limit(limit).Find(&gifs).Error
	return gifs, err
}

// ListAllGifs 获取全部记录，离线维护用
func (r *Repository) ListAllGifs() ([]*models.Gif, error) {
	var gifs []*models.Gif
	err := r.db.Find(&gifs).Error
	return gifs, err
}

// UpdateShareURLs 更新单条记录的链接列，backfill 用
func (r *Repository) UpdateShareURLs(id uint, filepath, shareURL string) error {
	return r.db.Model(&models.Gif{}).Where("id = ?", id).
		Updates(map[string]interface{}{"filepath": filepath, "share_url": shareURL}).Error
}

// CountGifsByUser 统计用户 GIF 数量
func (r *Repository) CountGifsByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Gif{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
