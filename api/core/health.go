package core

import (
	"context"

	"github.com/akira-dev/gif-bed/internal/app"
)

func checkDatabaseHealth(c *app.Container) string {
	if c == nil || c.DB == nil {
		return "not initialized"
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkCacheHealth(c *app.Container) string {
	if c == nil || c.CacheProvider == nil {
		return "not initialized"
	}
	ctx := context.Background()
	if _, err := c.CacheProvider.Exists(ctx, "health_check"); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func checkStorageHealth(c *app.Container) string {
	if c == nil || c.Storage == nil {
		return "not initialized"
	}
	ctx := context.Background()
	if err := c.Storage.Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
