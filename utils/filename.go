package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeFilename 清洗上传的原始文件名，只保留基础名并替换危险字符
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		" ", "_",
		"\x00", "",
	)
	name = replacer.Replace(name)
	if name == "" || name == "." {
		name = "upload.gif"
	}
	return name
}

// GenerateStoredFilename 生成存储文件名：毫秒时间戳前缀 + 清洗后的原名
// 时间戳前缀同时用于碰撞规避和最老文件腾退的排序
func GenerateStoredFilename(originalName string, now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeFilename(originalName))
}
