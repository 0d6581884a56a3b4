package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/common"
	handlerAuth "github.com/akira-dev/gif-bed/api/handler/auth"
	handlerGifs "github.com/akira-dev/gif-bed/api/handler/gifs"
	"github.com/akira-dev/gif-bed/api/middleware"
	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/internal/app"
)

// RouterDependencies 路由注册依赖
type RouterDependencies struct {
	Container       *app.Container
	AuthRateLimiter *middleware.IPRateLimiter
	APIRateLimiter  *middleware.IPRateLimiter
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *RouterDependencies) {
	c := deps.Container

	authMiddleware := middleware.NewAuthMiddleware(c.Authenticator)
	authHandler := handlerAuth.NewHandler(c.LoginService)
	gifHandler := handlerGifs.NewHandler(c.Config, c.UploadService, c.QueryService, c.DeleteService, c.GifsRepo, c.Storage)

	registerBasicRoutes(router, c)
	registerPublicRoutes(router, deps, gifHandler, authMiddleware)
	registerAPIRoutes(router, deps, authHandler, gifHandler, authMiddleware)
}

// registerBasicRoutes 健康检查、版本与指标
func registerBasicRoutes(router *gin.Engine, c *app.Container) {
	router.GET("/health", func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(c),
				"cache":    checkCacheHealth(c),
				"storage":  checkStorageHealth(c),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		context.JSON(httpStatus, health)
	})

	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	router.GET("/metrics", func(context *gin.Context) {
		context.JSON(http.StatusOK, middleware.GetMetrics())
	})
}

// registerPublicRoutes 文件访问与分享页，可选认证以支持私有文件
func registerPublicRoutes(router *gin.Engine, deps *RouterDependencies, gifHandler *handlerGifs.Handler, authMiddleware *middleware.AuthMiddleware) {
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(deps.APIRateLimiter.Middleware())
	uploadsGroup.Use(authMiddleware.Optional())
	{
		uploadsGroup.GET("/:filename", gifHandler.ServeFile) // GET /uploads/{filename}
	}

	shareGroup := router.Group("/g")
	shareGroup.Use(deps.APIRateLimiter.Middleware())
	shareGroup.Use(authMiddleware.Optional())
	{
		shareGroup.GET("/:filename", gifHandler.SharePage) // GET /g/{filename}
	}
}

// registerAPIRoutes JSON API
func registerAPIRoutes(router *gin.Engine, deps *RouterDependencies, authHandler *handlerAuth.Handler, gifHandler *handlerGifs.Handler, authMiddleware *middleware.AuthMiddleware) {
	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) { // 所有API禁止缓存
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(deps.AuthRateLimiter.Middleware())
		{
			authGroup.POST("/register", authHandler.Register)                    // POST /api/auth/register
			authGroup.POST("/login", authHandler.Login)                          // POST /api/auth/login
			authGroup.POST("/logout", authHandler.Logout)                        // POST /api/auth/logout
			authGroup.GET("/me", authMiddleware.Required(), authHandler.Me)      // GET /api/auth/me
		}

		apiV1 := apiGroup.Group("")
		apiV1.Use(deps.APIRateLimiter.Middleware())
		{
			apiV1.POST("/upload", authMiddleware.Required(), gifHandler.UploadGifs) // POST /api/upload

			gifsGroup := apiV1.Group("/gifs")
			{
				gifsGroup.GET("", authMiddleware.Optional(), gifHandler.ListGifs)          // GET /api/gifs
				gifsGroup.GET("/:id", authMiddleware.Optional(), gifHandler.GetGif)        // GET /api/gifs/{id}
				gifsGroup.DELETE("/:id", authMiddleware.Required(), gifHandler.DeleteGif)  // DELETE /api/gifs/{id}
			}
		}
	}
}
