package gifs

import (
	"github.com/akira-dev/gif-bed/config"
	gifrepo "github.com/akira-dev/gif-bed/database/repo/gifs"
	"github.com/akira-dev/gif-bed/internal/gifs"
	"github.com/akira-dev/gif-bed/storage"
)

// Handler GIF 相关接口
type Handler struct {
	cfg           *config.Config
	uploadService *gifs.UploadService
	queryService  *gifs.QueryService
	deleteService *gifs.DeleteService
	repo          *gifrepo.Repository
	store         storage.Provider
}

// NewHandler 创建 GIF 处理器
func NewHandler(cfg *config.Config, uploadService *gifs.UploadService, queryService *gifs.QueryService, deleteService *gifs.DeleteService, repo *gifrepo.Repository, store storage.Provider) *Handler {
	return &Handler{
		cfg:           cfg,
		uploadService: uploadService,
		queryService:  queryService,
		deleteService: deleteService,
		repo:          repo,
		store:         store,
	}
}
