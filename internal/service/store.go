package service

import (
	"context"

	"github.com/user/moviehub/internal/model"
)

// MovieStore 电影存储
type MovieStore interface {
	List(ctx context.Context, f model.MovieFilter) ([]model.Movie, int64, error)
	FullTextSearch(ctx context.Context, keyword string, page, limit int) ([]model.Movie, int64, error)
	AdvancedSearch(ctx context.Context, f model.AdvancedFilter) ([]model.Movie, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Movie, error)
	FindByRank(ctx context.Context, rank int, excludeID uint) (*model.Movie, error)
	MaxRank(ctx context.Context) (int, error)
	Create(ctx context.Context, movie *model.Movie) error
	Save(ctx context.Context, movie *model.Movie) error
	DeleteCascade(ctx context.Context, id uint) (bool, error)
	ListAll(ctx context.Context) ([]model.Movie, error)
	TopRated(ctx context.Context, limit int) ([]model.Movie, error)
	FindByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]model.Movie, error)
}

// UserStore 用户存储
type UserStore interface {
	Create(ctx context.Context, username, password, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	CheckPassword(user *model.User, password string) bool
}

// CommentStore 评论存储
type CommentStore interface {
	ListByMovie(ctx context.Context, movieID uint) ([]model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	Delete(ctx context.Context, id uint) error
}

// FavoriteStore 收藏存储
type FavoriteStore interface {
	Add(ctx context.Context, userID, movieID uint) error
	Remove(ctx context.Context, userID, movieID uint) error
	IsFavorited(ctx context.Context, userID, movieID uint) (bool, error)
	ListMovies(ctx context.Context, userID uint) ([]model.Movie, error)
}

// StatsStore 统计查询
type StatsStore interface {
	CountAndAverage(ctx context.Context) (int64, float64, error)
	TopGenres(ctx context.Context, limit int) ([]model.GenreCount, error)
	RatingBuckets(ctx context.Context) ([]model.BucketCount, error)
	YearDistribution(ctx context.Context) ([]model.YearCount, error)
}
