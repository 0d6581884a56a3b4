package gifs

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/common"
	"github.com/akira-dev/gif-bed/api/middleware"
	gifsvc "github.com/akira-dev/gif-bed/internal/gifs"
)

// DeleteGif 属主删除记录及文件
// 记录不存在与属主不符统一返回 404
func (h *Handler) DeleteGif(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid gif id")
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.deleteService.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, gifsvc.ErrGifNotFound) {
			common.RespondError(c, http.StatusNotFound, "Gif not found")
			return
		}
		log.Printf("[Gifs] Delete failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to delete gif")
		return
	}

	common.RespondSuccessMessage(c, "Gif deleted", nil)
}
