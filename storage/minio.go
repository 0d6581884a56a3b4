package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/akira-dev/gif-bed/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStorage struct {
	client     *minio.Client
	bucketName string
}

// newMinioStorage 创建 MinIO 存储提供者
func newMinioStorage(cfg *config.Config) (*minioStorage, error) {
	client, err := minio.New(cfg.StorageMinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageMinioAccess, cfg.StorageMinioSecret, ""),
		Secure: cfg.StorageMinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.StorageMinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket '%s' exists: %w", cfg.StorageMinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageMinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", cfg.StorageMinioBucket, err)
		}
		log.Printf("Successfully created bucket: %s", cfg.StorageMinioBucket)
	}

	return &minioStorage{
		client:     client,
		bucketName: cfg.StorageMinioBucket,
	}, nil
}

// Save 保存文件到对象存储
func (m *minioStorage) Save(ctx context.Context, filename string, file io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, m.bucketName, filename, file, size, minio.PutObjectOptions{
		ContentType: "image/gif",
	})
	if err != nil {
		return fmt.Errorf("failed to put object '%s': %w", filename, err)
	}
	return nil
}

// Open 打开对象用于读取
func (m *minioStorage) Open(ctx context.Context, filename string) (io.ReadSeekCloser, error) {
	object, err := m.client.GetObject(ctx, m.bucketName, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s': %w", filename, err)
	}
	// GetObject 是惰性的，Stat 确认对象存在
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		return nil, fmt.Errorf("object not found: %s", filename)
	}
	return object, nil
}

// Delete 删除对象
func (m *minioStorage) Delete(ctx context.Context, filename string) error {
	err := m.client.RemoveObject(ctx, m.bucketName, filename, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object '%s': %w", filename, err)
	}
	return nil
}

// Exists 检查对象是否存在
func (m *minioStorage) Exists(ctx context.Context, filename string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucketName, filename, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (m *minioStorage) Health(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucketName)
	return err
}

// Name 返回存储名称
func (m *minioStorage) Name() string {
	return "minio"
}
