package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviehub/internal/service"
	"github.com/user/moviehub/internal/utils"
)

type commentRequest struct {
	Content string   `json:"content" form:"content"`
	Rating  *float64 `json:"rating" form:"rating"`
}

// ListComments 电影评论，最新在前
func (h *Handler) ListComments(c *gin.Context) {
	movieID, ok := parseID(c, "movieId")
	if !ok {
		c.JSON(http.StatusOK, []struct{}{})
		return
	}

	comments, err := h.Interactions.Comments(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err, "获取评论失败")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment 发表评论
func (h *Handler) AddComment(c *gin.Context) {
	movieID, ok := parseID(c, "movieId")
	if !ok {
		utils.NotFound(c, service.ErrMovieNotFound.Error())
		return
	}

	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "请求参数错误")
		return
	}

	comment, err := h.Interactions.AddComment(c.Request.Context(), identity(c), movieID, req.Content, req.Rating)
	if err != nil {
		respondError(c, err, "添加评论失败")
		return
	}
	utils.Created(c, gin.H{"message": "评论添加成功", "comment": comment})
}

// DeleteComment 删除自己的评论
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, service.ErrCommentNotFound.Error())
		return
	}

	if err := h.Interactions.DeleteComment(c.Request.Context(), identity(c).ID, commentID); err != nil {
		respondError(c, err, "删除评论失败")
		return
	}
	utils.Message(c, http.StatusOK, "评论删除成功")
}
