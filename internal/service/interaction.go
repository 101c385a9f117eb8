package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/user/moviehub/internal/model"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

// InteractionService 评论与收藏
type InteractionService struct {
	movies    MovieStore
	comments  CommentStore
	favorites FavoriteStore
}

func NewInteractionService(movies MovieStore, comments CommentStore, favorites FavoriteStore) *InteractionService {
	return &InteractionService{movies: movies, comments: comments, favorites: favorites}
}

// Comments 电影的评论，最新在前
func (s *InteractionService) Comments(ctx context.Context, movieID uint) ([]model.Comment, error) {
	comments, err := s.comments.ListByMovie(ctx, movieID)
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, err
}

// AddComment 发表评论，用户名取自登录身份
func (s *InteractionService) AddComment(ctx context.Context, user model.Identity, movieID uint, content string, rating *float64) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("评论内容不能为空")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, invalid("评论内容不能超过%d个字符", maxCommentLength)
	}
	if rating != nil && (*rating < 0 || *rating > 10) {
		return nil, invalid("评分必须在0到10之间")
	}

	if err := s.ensureMovie(ctx, movieID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		MovieID:  movieID,
		UserID:   user.ID,
		Username: user.Username,
		Content:  content,
		Rating:   rating,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment 只有作者可以删除评论
func (s *InteractionService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	return s.comments.Delete(ctx, commentID)
}

// Favorites 用户收藏的电影
func (s *InteractionService) Favorites(ctx context.Context, userID uint) ([]model.Movie, error) {
	movies, err := s.favorites.ListMovies(ctx, userID)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	for i := range movies {
		movies[i].EnsureSlices()
	}
	return movies, nil
}

// AddFavorite 收藏电影，同一用户重复收藏返回 ErrAlreadyFavorited
func (s *InteractionService) AddFavorite(ctx context.Context, userID, movieID uint) error {
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return err
	}

	exists, err := s.favorites.IsFavorited(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFavorited
	}

	err = s.favorites.Add(ctx, userID, movieID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyFavorited
	}
	return err
}

// RemoveFavorite 取消收藏，未收藏时同样成功
func (s *InteractionService) RemoveFavorite(ctx context.Context, userID, movieID uint) error {
	return s.favorites.Remove(ctx, userID, movieID)
}

// IsFavorited 是否已收藏
func (s *InteractionService) IsFavorited(ctx context.Context, userID, movieID uint) (bool, error) {
	return s.favorites.IsFavorited(ctx, userID, movieID)
}

func (s *InteractionService) ensureMovie(ctx context.Context, movieID uint) error {
	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return ErrMovieNotFound
	}
	return nil
}
