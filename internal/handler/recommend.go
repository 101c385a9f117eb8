package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Recommendations 基于收藏类型的个性化推荐
func (h *Handler) Recommendations(c *gin.Context) {
	movies, err := h.Recommend.Recommend(c.Request.Context(), identity(c).ID)
	if err != nil {
		respondError(c, err, "获取推荐失败")
		return
	}
	c.JSON(http.StatusOK, movies)
}
