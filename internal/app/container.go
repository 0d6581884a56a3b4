package app

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/akira-dev/gif-bed/cache"
	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/database"
	"github.com/akira-dev/gif-bed/database/repo/accounts"
	gifrepo "github.com/akira-dev/gif-bed/database/repo/gifs"
	"github.com/akira-dev/gif-bed/internal/auth"
	"github.com/akira-dev/gif-bed/internal/gifs"
	"github.com/akira-dev/gif-bed/storage"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
// 所有依赖在这里显式组装，不通过包级全局变量传递
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	AccountsRepo *accounts.Repository
	SessionsRepo *accounts.SessionRepository
	GifsRepo     *gifrepo.Repository

	CacheProvider cache.Provider
	CacheHelper   *cache.Helper
	Storage       storage.Provider

	Authenticator *auth.Authenticator
	LoginService  *auth.LoginService
	UploadService *gifs.UploadService
	QueryService  *gifs.QueryService
	DeleteService *gifs.DeleteService
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{Config: cfg}
}

// Init 初始化数据库、缓存、存储与服务
func (c *Container) Init() error {
	db, err := database.NewDB(c.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	c.AccountsRepo = accounts.NewRepository(db)
	c.SessionsRepo = accounts.NewSessionRepository(db)
	c.GifsRepo = gifrepo.NewRepository(db)

	provider, err := cache.NewProvider(c.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	c.CacheProvider = provider
	c.CacheHelper = cache.NewHelper(provider, time.Duration(c.Config.CacheGifTTL)*time.Second)

	store, err := storage.NewProvider(c.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.Storage = store

	c.Authenticator = auth.NewAuthenticator(c.AccountsRepo, c.SessionsRepo)
	c.LoginService = auth.NewLoginService(c.Config, c.AccountsRepo, c.SessionsRepo)
	c.UploadService = gifs.NewUploadService(c.Config, c.GifsRepo, store)
	c.QueryService = gifs.NewQueryService(c.GifsRepo, c.CacheHelper)
	c.DeleteService = gifs.NewDeleteService(c.GifsRepo, store, c.CacheHelper)

	log.Printf("[App] Container initialized (db=%s cache=%s storage=%s)",
		c.Config.DBType, provider.Name(), store.Name())
	return nil
}

// Close 释放容器持有的资源
func (c *Container) Close() {
	if c.CacheProvider != nil {
		if err := c.CacheProvider.Close(); err != nil {
			log.Printf("[App] Failed to close cache provider: %v", err)
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("[App] Failed to close database: %v", err)
			}
		}
	}
}
