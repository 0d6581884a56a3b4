package gifs

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/common"
	"github.com/akira-dev/gif-bed/api/middleware"
	gifrepo "github.com/akira-dev/gif-bed/database/repo/gifs"
)

// ListGifs 按可见性范围返回列表
// q 为标题子串过滤，userId 限定属主，匿名请求只返回公开记录
func (h *Handler) ListGifs(c *gin.Context) {
	filter := gifrepo.ListFilter{
		Search:      c.Query("q"),
		RequesterID: middleware.CurrentUserID(c),
	}

	if raw := c.Query("userId"); raw != "" {
		ownerID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, "Invalid userId parameter")
			return
		}
		filter.OwnerID = uint(ownerID)
	}

	gifs, err := h.queryService.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[Gifs] List failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to list gifs")
		return
	}

	common.RespondSuccess(c, gin.H{
		"gifs":  gifs,
		"count": len(gifs),
	})
}
