package gifs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/database/models"
	gifrepo "github.com/akira-dev/gif-bed/database/repo/gifs"
	"github.com/akira-dev/gif-bed/storage"
	"github.com/akira-dev/gif-bed/storage/local"
	"github.com/akira-dev/gif-bed/utils"
	"github.com/akira-dev/gif-bed/utils/validator"
)

// 上传校验错误，handler 层映射为 400
var (
	ErrNoFiles      = errors.New("no files uploaded")
	ErrTooManyFiles = errors.New("too many files")
	ErrFileTooLarge = errors.New("file too large")
	ErrNotGif       = errors.New("only GIF files are allowed")
)

// UploadError 批量上传中单个文件的失败信息
type UploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResult 批量上传结果，成功与失败分开返回
type UploadResult struct {
	Gifs   []*models.Gif `json:"gifs"`
	Errors []UploadError `json:"errors,omitempty"`
}

// UploadService 处理 GIF 上传与磁盘空间回收
type UploadService struct {
	cfg     *config.Config
	repo    *gifrepo.Repository
	store   storage.Provider
	evictMu sync.Mutex
}

// NewUploadService 创建上传服务
func NewUploadService(cfg *config.Config, repo *gifrepo.Repository, store storage.Provider) *UploadService {
	return &UploadService{
		cfg:   cfg,
		repo:  repo,
		store: store,
	}
}

// UploadBatch 校验并保存一批文件，每个文件独立成败
// 文件数超限时整批拒绝，单文件校验失败只记入 Errors
func (s *UploadService) UploadBatch(ctx context.Context, userID uint, headers []*multipart.FileHeader, isPublic bool, title string) (*UploadResult, error) {
	if len(headers) == 0 {
		return nil, ErrNoFiles
	}
	if len(headers) > s.cfg.UploadMaxFiles {
		return nil, fmt.Errorf("%w: %d files exceeds limit of %d", ErrTooManyFiles, len(headers), s.cfg.UploadMaxFiles)
	}

	var incoming int64
	for _, h := range headers {
		if h.Size > s.cfg.MaxFileSizeBytes() {
			return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, utils.SanitizeLogMessage(h.Filename), h.Size, s.cfg.MaxFileSizeBytes())
		}
		incoming += h.Size
	}
	if err := s.ensureCapacity(ctx, incoming); err != nil {
		log.Printf("[Upload] Disk eviction failed: %v", err)
	}

	result := &UploadResult{Gifs: make([]*models.Gif, 0, len(headers))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, header := range headers {
		header := header
		g.Go(func() error {
			gif, err := s.uploadOne(gctx, userID, header, isPublic, title)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, UploadError{
					Filename: utils.SanitizeLogMessage(header.Filename),
					Error:    err.Error(),
				})
				return nil
			}
			result.Gifs = append(result.Gifs, gif)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(result.Gifs) == 0 {
		return nil, ErrNoFiles
	}
	return result, nil
}

// uploadOne 校验单个文件并落盘落库，任一步失败不留下数据库记录
func (s *UploadService) uploadOne(ctx context.Context, userID uint, header *multipart.FileHeader, isPublic bool, title string) (*models.Gif, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ok, err := validator.IsGif(file)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect file: %w", err)
	}
	if !ok {
		return nil, ErrNotGif
	}

	storedName := utils.GenerateStoredFilename(header.Filename, time.Now())
	if err := s.store.Save(ctx, storedName, file, header.Size); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	gifTitle := title
	if gifTitle == "" {
		gifTitle = utils.SanitizeFilename(header.Filename)
	}

	baseURL := s.cfg.BaseURL()
	gif := &models.Gif{
		Title:    gifTitle,
		Filename: storedName,
		Filepath: utils.BuildFileURL(baseURL, storedName),
		ShareURL: utils.BuildShareURL(baseURL, storedName),
		FileSize: header.Size,
		MimeType: "image/gif",
		IsPublic: isPublic,
		UserID:   userID,
	}
	if err := s.repo.WithContext(ctx).SaveGif(gif); err != nil {
		// 落库失败时回收已写入的文件，避免产生孤儿
		if delErr := s.store.Delete(ctx, storedName); delErr != nil {
			log.Printf("[Upload] Failed to remove file after db error: %v", delErr)
		}
		return nil, fmt.Errorf("failed to save gif record: %w", err)
	}

	log.Printf("[Upload] Stored %s (%d bytes) for user %d", storedName, header.Size, userID)
	return gif, nil
}

// ensureCapacity 磁盘占用超过上限时按最旧优先淘汰
//
// 检查与写入之间没有全局锁，并发上传可能短暂超出上限，
// 这里只做尽力而为的回收，不提供硬性保证
func (s *UploadService) ensureCapacity(ctx context.Context, incoming int64) error {
	limit := s.cfg.UploadDirMaxBytes()
	if limit <= 0 {
		return nil
	}
	ls, isLocal := s.store.(*local.Storage)
	if !isLocal {
		return nil
	}

	s.evictMu.Lock()
	defer s.evictMu.Unlock()

	used, err := ls.UsedBytes()
	if err != nil {
		return fmt.Errorf("failed to measure upload dir: %w", err)
	}
	if used+incoming <= limit {
		return nil
	}

	const evictBatch = 16
	for used+incoming > limit {
		oldest, err := s.repo.ListOldestGifs(evictBatch)
		if err != nil {
			return fmt.Errorf("failed to list eviction candidates: %w", err)
		}
		if len(oldest) == 0 {
			return nil
		}
		for _, gif := range oldest {
			if used+incoming <= limit {
				break
			}
			if err := s.repo.DeleteGif(gif); err != nil {
				return fmt.Errorf("failed to delete gif %d: %w", gif.ID, err)
			}
			if err := s.store.Delete(ctx, gif.Filename); err != nil {
				log.Printf("[Upload] Failed to evict file %s: %v", gif.Filename, err)
			}
			used -= gif.FileSize
			log.Printf("[Upload] Evicted %s (%d bytes) to reclaim space", gif.Filename, gif.FileSize)
		}
	}
	return nil
}
