package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/middleware"
	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/internal/app"
)

var startTime = time.Now()

// setupRouter 组装 gin 引擎、全局中间件与路由
func setupRouter(container *app.Container) (*gin.Engine, func()) {
	cfg := container.Config

	// 仅在开发版本时启用 gin 日志
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 限制单次 multipart 解析的内存占用
	router.MaxMultipartMemory = cfg.MaxFileSizeBytes()

	// 请求ID追踪
	router.Use(middleware.RequestID())

	// 基础监控指标
	router.Use(middleware.Metrics())

	// 速率限制：认证接口用更严格的桶
	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
	}

	RegisterRoutes(router, &RouterDependencies{
		Container:       container,
		AuthRateLimiter: authRateLimiter,
		APIRateLimiter:  apiRateLimiter,
	})

	return router, cleanup
}

// StartServer 创建 http.Server 与限流器清理函数
func StartServer(container *app.Container) (*http.Server, func()) {
	cfg := container.Config
	router, cleanup := setupRouter(container)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, cleanup
}
