package repository

import (
	"context"

	"github.com/user/moviehub/internal/model"
	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 添加收藏，重复收藏返回 gorm.ErrDuplicatedKey
func (r *FavoriteRepository) Add(ctx context.Context, userID, movieID uint) error {
	favorite := &model.Favorite{
		UserID:  userID,
		MovieID: movieID,
	}
	return r.db.WithContext(ctx).Create(favorite).Error
}

// Remove 取消收藏，不存在时不报错
func (r *FavoriteRepository) Remove(ctx context.Context, userID, movieID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.Favorite{}).Error
}

// IsFavorited 检查是否已收藏
func (r *FavoriteRepository) IsFavorited(ctx context.Context, userID, movieID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

// ListMovies 用户收藏的电影，最近收藏在前
func (r *FavoriteRepository) ListMovies(ctx context.Context, userID uint) ([]model.Movie, error) {
	var favorites []model.Favorite
	err := r.db.WithContext(ctx).Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, len(favorites))
	for _, f := range favorites {
		if f.Movie != nil {
			movies = append(movies, *f.Movie)
		}
	}
	return movies, nil
}
