package models

import (
	"gorm.io/gorm"
)

// Gif 上传的 GIF 记录，每个上传文件对应一行
type Gif struct {
	gorm.Model
	Title    string `gorm:"not null" json:"title"`
	Filename string `gorm:"uniqueIndex:idx_filename;not null" json:"filename"` // 存储文件名，时间戳前缀
	Filepath string `gorm:"not null" json:"filepath"`                          // 可公开访问的文件 URL
	ShareURL string `gorm:"not null" json:"shareUrl"`
	FileSize int64  `gorm:"not null" json:"fileSize"`
	MimeType string `gorm:"not null" json:"mimeType"`
	IsPublic bool   `gorm:"not null" json:"isPublic"`

	UserID uint `gorm:"index:idx_user_created_at,priority:1" json:"userId"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
}
