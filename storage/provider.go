package storage

import (
	"context"
	"io"
)

// Provider 存储提供者接口 - 依赖倒置的核心抽象
type Provider interface {
	// Save 保存文件
	Save(ctx context.Context, filename string, file io.Reader, size int64) error

	// Open 打开文件用于读取
	Open(ctx context.Context, filename string) (io.ReadSeekCloser, error)

	// Delete 删除文件
	Delete(ctx context.Context, filename string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, filename string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}
