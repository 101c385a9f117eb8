package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 失败响应，Error 仅在服务器内部错误时携带原始信息
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Message 返回只含提示信息的响应
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// Created 返回 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Abort 返回错误并终止后续中间件
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Message: message})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message})
}

// Unauthorized 返回401错误
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未登录"
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: message})
}

// Forbidden 返回403错误
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "无权操作"
	}
	c.JSON(http.StatusForbidden, ErrorResponse{Message: message})
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Message: message})
}


// Fail 返回500错误，附带原始错误信息
func Fail(c *gin.Context, message string, err error) {
	if message == "" {
		message = "服务器内部错误"
	}
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
