package storage

import (
	"fmt"

	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/storage/local"
)

// NewProvider 按配置创建存储提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.StorageType {
	case "", "local":
		return local.NewStorage(cfg.UploadDir)
	case "minio", "s3":
		return newMinioStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
