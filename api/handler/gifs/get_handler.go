package gifs

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/common"
	"github.com/akira-dev/gif-bed/api/middleware"
	gifsvc "github.com/akira-dev/gif-bed/internal/gifs"
	"github.com/akira-dev/gif-bed/utils"
)

// GetGif 获取单条记录
// 私有记录非属主访问返回 403，不存在返回 404
func (h *Handler) GetGif(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid gif id")
		return
	}

	gif, err := h.queryService.Get(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, gifsvc.ErrGifNotFound):
			common.RespondError(c, http.StatusNotFound, "Gif not found")
		case errors.Is(err, gifsvc.ErrForbidden):
			common.RespondError(c, http.StatusForbidden, "Access denied")
		default:
			log.Printf("[Gifs] Get failed: %v", err)
			common.RespondError(c, http.StatusInternalServerError, "Failed to fetch gif")
		}
		return
	}

	common.RespondSuccess(c, gin.H{
		"gif":   gif,
		"links": utils.BuildLinkFormats(h.cfg.BaseURL(), gif.Filename, gif.Title),
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
