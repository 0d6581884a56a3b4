package gifs

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/akira-dev/gif-bed/cache"
	"github.com/akira-dev/gif-bed/database/models"
	gifrepo "github.com/akira-dev/gif-bed/database/repo/gifs"
)

// 查询错误，handler 层按种类映射状态码
var (
	// ErrGifNotFound 记录不存在
	ErrGifNotFound = errors.New("gif not found")

	// ErrForbidden 私有记录且请求者不是属主
	ErrForbidden = errors.New("access denied")
)

// QueryService 列表与单条查询，单条走缓存并合并并发回源
type QueryService struct {
	repo        *gifrepo.Repository
	cacheHelper *cache.Helper
	sf          singleflight.Group
}

// NewQueryService 创建查询服务
func NewQueryService(repo *gifrepo.Repository, cacheHelper *cache.Helper) *QueryService {
	return &QueryService{
		repo:        repo,
		cacheHelper: cacheHelper,
	}
}

// List 按可见性范围返回列表，requesterID 为 0 表示匿名
func (s *QueryService) List(ctx context.Context, filter gifrepo.ListFilter) ([]*models.Gif, error) {
	gifs, err := s.repo.WithContext(ctx).ListGifs(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifs: %w", err)
	}
	return gifs, nil
}

// Get 获取单条记录并做可见性检查
// 私有记录只有属主可见，非属主返回 ErrForbidden
func (s *QueryService) Get(ctx context.Context, id, requesterID uint) (*models.Gif, error) {
	gif, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !gif.IsPublic && gif.UserID != requesterID {
		return nil, ErrForbidden
	}
	return gif, nil
}

// fetch 缓存优先读取，未命中时用 singleflight 合并同 ID 的并发回源
func (s *QueryService) fetch(ctx context.Context, id uint) (*models.Gif, error) {
	var cached models.Gif
	if err := s.cacheHelper.GetCachedGif(ctx, id, &cached); err == nil {
		return &cached, nil
	} else if !cache.IsCacheMiss(err) {
		log.Printf("[Gifs] Cache read failed for gif %d: %v", id, err)
	}

	v, err, _ := s.sf.Do(fmt.Sprintf("gif:%d", id), func() (interface{}, error) {
		gif, err := s.repo.WithContext(ctx).GetGifByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGifNotFound
			}
			return nil, fmt.Errorf("failed to query gif %d: %w", id, err)
		}
		if err := s.cacheHelper.CacheGif(ctx, gif); err != nil {
			log.Printf("[Gifs] Cache write failed for gif %d: %v", id, err)
		}
		return gif, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Gif), nil
}
