package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Storage 本地文件存储实现
type Storage struct {
	absBasePath string
}

// NewStorage 创建本地存储提供者
func NewStorage(basePath string) (*Storage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", absPath, err)
	}

	return &Storage{
		absBasePath: absPath + string(os.PathSeparator),
	}, nil
}

// Save 保存文件到本地存储
func (s *Storage) Save(ctx context.Context, filename string, file io.Reader, size int64) error {
	dstPath, err := s.resolve(filename)
	if err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return nil
}

// Open 从本地存储打开文件
func (s *Storage) Open(ctx context.Context, filename string) (io.ReadSeekCloser, error) {
	fullPath, err := s.resolve(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", filename, err)
	}

	return file, nil
}

// Delete 从本地存储删除文件
func (s *Storage) Delete(ctx context.Context, filename string) error {
	fullPath, err := s.resolve(filename)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file to delete not found: %s", filename)
		}
		return fmt.Errorf("failed to delete local file '%s': %w", fullPath, err)
	}

	return nil
}

// Exists 检查文件是否存在
func (s *Storage) Exists(ctx context.Context, filename string) (bool, error) {
	fullPath, err := s.resolve(filename)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *Storage) Health(ctx context.Context) error {
	_, err := os.ReadDir(s.absBasePath)
	return err
}

// Name 返回存储名称
func (s *Storage) Name() string {
	return "local"
}

// BasePath 返回存储的基础路径
func (s *Storage) BasePath() string {
	return s.absBasePath
}

// UsedBytes 统计存储目录当前占用的字节数
func (s *Storage) UsedBytes() (int64, error) {
	var total int64
	entries, err := os.ReadDir(s.absBasePath)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// ListByModTime 按修改时间升序列出存储文件名，最老的在前
func (s *Storage) ListByModTime() ([]string, error) {
	entries, err := os.ReadDir(s.absBasePath)
	if err != nil {
		return nil, err
	}

	type fileAge struct {
		name    string
		modUnix int64
	}
	files := make([]fileAge, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileAge{name: entry.Name(), modUnix: info.ModTime().UnixNano()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modUnix < files[j].modUnix
	})

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}

// validFilename 存储文件名只允许单层、无路径分隔符
var validFilename = regexp.MustCompile(`^[^/\\]+$`)

// resolve 校验文件名并拼接出 basePath 下的绝对路径
func (s *Storage) resolve(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || !validFilename.MatchString(filename) {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}

	fullPath := filepath.Join(s.absBasePath, filename)

	// 确保最终路径在 basePath 内，防目录穿越
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return "", fmt.Errorf("invalid file path, potential directory traversal: %s", filename)
	}
	return fullPath, nil
}
