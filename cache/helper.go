package cache

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/akira-dev/gif-bed/database/models"
)

const (
	// GifCachePrefix GIF 元数据缓存前缀
	GifCachePrefix = "gif_meta:"

	// DefaultGifCacheExpiration GIF 元数据缓存过期时间
	DefaultGifCacheExpiration = 1 * time.Hour
)

// addJitter 添加随机抖动（±10%），防止缓存雪崩
func addJitter(duration time.Duration) time.Duration {
	if duration <= 0 {
		return duration
	}
	jitter := time.Duration(rand.Int63n(int64(duration) / 10))
	return duration + jitter
}

// Helper 缓存辅助工具结构
type Helper struct {
	provider Provider
	gifTTL   time.Duration
}

// NewHelper 创建新的缓存辅助工具
func NewHelper(provider Provider, gifTTL time.Duration) *Helper {
	if gifTTL <= 0 {
		gifTTL = DefaultGifCacheExpiration
	}
	return &Helper{
		provider: provider,
		gifTTL:   gifTTL,
	}
}

// CacheGif 缓存 GIF 元数据
func (h *Helper) CacheGif(ctx context.Context, gif *models.Gif) error {
	if h.provider == nil {
		return fmt.Errorf("cache provider not initialized")
	}
	key := fmt.Sprintf("%s%d", GifCachePrefix, gif.ID)
	return h.provider.Set(ctx, key, gif, addJitter(h.gifTTL))
}

// GetCachedGif 获取缓存的 GIF 元数据
func (h *Helper) GetCachedGif(ctx context.Context, id uint, gif *models.Gif) error {
	if h.provider == nil {
		return fmt.Errorf("cache provider not initialized")
	}
	key := fmt.Sprintf("%s%d", GifCachePrefix, id)
	return h.provider.Get(ctx, key, gif)
}

// DeleteCachedGif 删除缓存的 GIF 元数据
func (h *Helper) DeleteCachedGif(ctx context.Context, id uint) error {
	if h.provider == nil {
		return nil
	}
	key := fmt.Sprintf("%s%d", GifCachePrefix, id)
	return h.provider.Delete(ctx, key)
}
