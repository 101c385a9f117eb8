package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviehub/internal/service"
	"github.com/user/moviehub/internal/utils"
)

// ListFavorites 我的收藏
func (h *Handler) ListFavorites(c *gin.Context) {
	movies, err := h.Interactions.Favorites(c.Request.Context(), identity(c).ID)
	if err != nil {
		respondError(c, err, "获取收藏列表失败")
		return
	}
	c.JSON(http.StatusOK, movies)
}

// AddFavorite 收藏电影
func (h *Handler) AddFavorite(c *gin.Context) {
	movieID, ok := parseID(c, "movieId")
	if !ok {
		utils.NotFound(c, service.ErrMovieNotFound.Error())
		return
	}

	if err := h.Interactions.AddFavorite(c.Request.Context(), identity(c).ID, movieID); err != nil {
		respondError(c, err, "收藏失败")
		return
	}
	utils.Message(c, http.StatusCreated, "收藏成功")
}

// RemoveFavorite 取消收藏，未收藏时同样返回成功
func (h *Handler) RemoveFavorite(c *gin.Context) {
	movieID, ok := parseID(c, "movieId")
	if ok {
		if err := h.Interactions.RemoveFavorite(c.Request.Context(), identity(c).ID, movieID); err != nil {
			respondError(c, err, "取消收藏失败")
			return
		}
	}
	utils.Message(c, http.StatusOK, "取消收藏成功")
}

// CheckFavorite 是否已收藏
func (h *Handler) CheckFavorite(c *gin.Context) {
	movieID, ok := parseID(c, "movieId")
	if !ok {
		c.JSON(http.StatusOK, gin.H{"isFavorited": false})
		return
	}

	favorited, err := h.Interactions.IsFavorited(c.Request.Context(), identity(c).ID, movieID)
	if err != nil {
		respondError(c, err, "检查收藏状态失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorited": favorited})
}
