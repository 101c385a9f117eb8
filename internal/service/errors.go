package service

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameTaken      = errors.New("用户名已存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrMovieNotFound      = errors.New("电影不存在")
	ErrCommentNotFound    = errors.New("评论不存在")
	ErrForbidden          = errors.New("无权删除此评论")
	ErrAlreadyFavorited   = errors.New("已经收藏过了")
	ErrRankTaken          = errors.New("排名已被占用")
	ErrUnsupportedFormat  = errors.New("不支持的导出格式")
)

// ValidationError 请求参数不合法
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RankConflictError 排名冲突，Title 为占用该排名的电影
type RankConflictError struct {
	Rank     int
	Title    string
	Creating bool
}

func (e *RankConflictError) Error() string {
	if e.Creating {
		return fmt.Sprintf("排名 %d 已被电影《%s》占用，请使用其他排名或留空自动分配", e.Rank, e.Title)
	}
	return fmt.Sprintf("排名 %d 已被电影《%s》占用，请使用其他排名", e.Rank, e.Title)
}

func (e *RankConflictError) Is(target error) bool {
	return target == ErrRankTaken
}
