package cache

import (
	"fmt"
	"log"

	"github.com/akira-dev/gif-bed/cache/memory"
	"github.com/akira-dev/gif-bed/cache/redis"
	"github.com/akira-dev/gif-bed/config"
)

// NewProvider 按配置创建缓存提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.CacheType {
	case "", "memory":
		memConfig := memory.Config{
			NumCounters: 100000,
			MaxCost:     64 << 20, // 64MB，只缓存元数据
			BufferItems: 64,
			Metrics:     false,
		}
		provider, err := memory.NewMemory(memConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		return provider, nil
	case "redis":
		provider, err := redis.NewRedis(cfg.CacheRedisAddr, cfg.CacheRedisPassword, cfg.CacheRedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Printf("[Cache] Using redis cache at %s", cfg.CacheRedisAddr)
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}
