package gifs

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/common"
	"github.com/akira-dev/gif-bed/api/middleware"
	gifsvc "github.com/akira-dev/gif-bed/internal/gifs"
	"github.com/akira-dev/gif-bed/utils"
)

// UploadGifs 处理多文件上传，表单字段名为 gif
func (h *Handler) UploadGifs(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	files := form.File["gif"]
	if len(files) == 0 {
		common.RespondError(c, http.StatusBadRequest, "At least one file is required under the 'gif' key")
		return
	}

	userID := middleware.CurrentUserID(c)
	// 未显式给出 is_public 时按私有处理
	isPublic := c.PostForm("is_public") == "true"
	title := c.PostForm("title")

	result, err := h.uploadService.UploadBatch(c.Request.Context(), userID, files, isPublic, title)
	if err != nil {
		switch {
		case errors.Is(err, gifsvc.ErrTooManyFiles),
			errors.Is(err, gifsvc.ErrFileTooLarge),
			errors.Is(err, gifsvc.ErrNoFiles):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[Gifs] Upload failed: %v", err)
			common.RespondError(c, http.StatusInternalServerError, "Failed to process uploads")
		}
		return
	}

	baseURL := h.cfg.BaseURL()
	views := make([]gin.H, 0, len(result.Gifs))
	for _, gif := range result.Gifs {
		views = append(views, gin.H{
			"gif":   gif,
			"links": utils.BuildLinkFormats(baseURL, gif.Filename, gif.Title),
		})
	}

	common.RespondCreated(c, gin.H{
		"gifs":   views,
		"errors": result.Errors,
	})
}
