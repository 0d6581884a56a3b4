package gifs

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akira-dev/gif-bed/api/common"
	"github.com/akira-dev/gif-bed/api/middleware"
	"github.com/akira-dev/gif-bed/utils"
)

// 已上传文件不会被覆盖，内容可以长期缓存
const fileCacheControl = "public, max-age=31536000, immutable"

var sharePageTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta property="og:title" content="{{.Title}}">
<meta property="og:image" content="{{.FileURL}}">
</head>
<body style="margin:0;display:flex;justify-content:center;align-items:center;min-height:100vh;background:#111">
<img src="{{.FileURL}}" alt="{{.Title}}" style="max-width:100%;max-height:100vh">
</body>
</html>`))

// ServeFile 从存储层读取并返回文件内容
func (h *Handler) ServeFile(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		common.RespondError(c, http.StatusBadRequest, "Filename is required")
		return
	}

	gif, err := h.repo.WithContext(c.Request.Context()).GetGifByFilename(filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RespondError(c, http.StatusNotFound, "File not found")
			return
		}
		log.Printf("[Gifs] File lookup failed for %s: %v", utils.SanitizeLogMessage(filename), err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to fetch file")
		return
	}

	// 私有文件只有属主可访问
	if !gif.IsPublic {
		userID := middleware.CurrentUserID(c)
		if userID == 0 || userID != gif.UserID {
			common.RespondError(c, http.StatusForbidden, "This gif is private")
			return
		}
	}

	reader, err := h.store.Open(c.Request.Context(), gif.Filename)
	if err != nil {
		log.Printf("[Gifs] Failed to open file %s: %v", gif.Filename, err)
		common.RespondError(c, http.StatusNotFound, "File not found")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", gif.MimeType)
	c.Header("Content-Length", fmt.Sprintf("%d", gif.FileSize))
	c.Header("Cache-Control", fileCacheControl)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		log.Printf("[Gifs] Failed to stream file %s: %v", gif.Filename, err)
	}
}

// SharePage 分享页，内嵌图片并带 OpenGraph 元信息
func (h *Handler) SharePage(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		common.RespondError(c, http.StatusBadRequest, "Filename is required")
		return
	}

	gif, err := h.repo.WithContext(c.Request.Context()).GetGifByFilename(filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RespondError(c, http.StatusNotFound, "Gif not found")
			return
		}
		log.Printf("[Gifs] Share lookup failed for %s: %v", utils.SanitizeLogMessage(filename), err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to fetch gif")
		return
	}

	if !gif.IsPublic {
		userID := middleware.CurrentUserID(c)
		if userID == 0 || userID != gif.UserID {
			common.RespondError(c, http.StatusForbidden, "This gif is private")
			return
		}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err = sharePageTemplate.Execute(c.Writer, gin.H{
		"Title":   gif.Title,
		"FileURL": utils.BuildFileURL(h.cfg.BaseURL(), gif.Filename),
	})
	if err != nil {
		log.Printf("[Gifs] Failed to render share page: %v", err)
	}
}
