package gifs

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/akira-dev/gif-bed/cache"
	gifrepo "github.com/akira-dev/gif-bed/database/repo/gifs"
	"github.com/akira-dev/gif-bed/storage"
)

// DeleteService 属主删除，先删库再删文件
type DeleteService struct {
	repo        *gifrepo.Repository
	store       storage.Provider
	cacheHelper *cache.Helper
}

// NewDeleteService 创建删除服务
func NewDeleteService(repo *gifrepo.Repository, store storage.Provider, cacheHelper *cache.Helper) *DeleteService {
	return &DeleteService{
		repo:        repo,
		store:       store,
		cacheHelper: cacheHelper,
	}
}

// Delete 删除属于 userID 的指定记录
// 记录不存在与不属于请求者统一返回 ErrGifNotFound，不向调用方泄露存在性
func (s *DeleteService) Delete(ctx context.Context, id, userID uint) error {
	gif, err := s.repo.WithContext(ctx).GetGifByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGifNotFound
		}
		return fmt.Errorf("failed to query gif %d: %w", id, err)
	}

	if err := s.repo.WithContext(ctx).DeleteGif(gif); err != nil {
		return fmt.Errorf("failed to delete gif %d: %w", id, err)
	}

	// 数据库记录已删除，文件清理失败只记日志，留给离线巡检兜底
	if err := s.store.Delete(ctx, gif.Filename); err != nil {
		log.Printf("[Gifs] Failed to remove file %s: %v", gif.Filename, err)
	}

	if err := s.cacheHelper.DeleteCachedGif(ctx, id); err != nil {
		log.Printf("[Gifs] Failed to invalidate cache for gif %d: %v", id, err)
	}

	log.Printf("[Gifs] Deleted gif %d (%s) by user %d", id, gif.Filename, userID)
	return nil
}
