package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsOverview 总数、平均分与热门类型
func (h *Handler) StatsOverview(c *gin.Context) {
	overview, err := h.Stats.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取统计概览失败")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// RatingDistribution 评分分布
func (h *Handler) RatingDistribution(c *gin.Context) {
	buckets, err := h.Stats.RatingDistribution(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取评分分布失败")
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// YearDistribution 年份分布
func (h *Handler) YearDistribution(c *gin.Context) {
	years, err := h.Stats.YearDistribution(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取年份分布失败")
		return
	}
	c.JSON(http.StatusOK, years)
}
