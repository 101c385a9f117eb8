package repository

import (
	"context"

	"github.com/user/moviehub/internal/model"
	"gorm.io/gorm"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountAndAverage 电影总数与平均评分（空表平均分为 0）
func (r *StatsRepository) CountAndAverage(ctx context.Context) (int64, float64, error) {
	var row struct {
		Total int64
		Avg   float64
	}
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg").
		Scan(&row).Error
	return row.Total, row.Avg, err
}

// TopGenres 出现次数最多的类型
func (r *StatsRepository) TopGenres(ctx context.Context, limit int) ([]model.GenreCount, error) {
	genres := []model.GenreCount{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT g AS genre, COUNT(*) AS count
			FROM movies, unnest(genres) AS g
			GROUP BY g
			ORDER BY count DESC, g ASC
			LIMIT ?`, limit).
		Scan(&genres).Error
	return genres, err
}

// RatingBuckets 按区间下界统计评分，[0,5) 归入 0，[b,b+1) 归入 b，区间外忽略
func (r *StatsRepository) RatingBuckets(ctx context.Context) ([]model.BucketCount, error) {
	var buckets []model.BucketCount
	err := r.db.WithContext(ctx).
		Raw(`SELECT CASE WHEN rating < 5 THEN 0 ELSE FLOOR(rating)::int END AS boundary, COUNT(*) AS count
			FROM movies
			WHERE rating >= 0 AND rating < 10
			GROUP BY boundary
			ORDER BY boundary`).
		Scan(&buckets).Error
	return buckets, err
}

// YearDistribution 按年份统计，年份升序
func (r *StatsRepository) YearDistribution(ctx context.Context) ([]model.YearCount, error) {
	years := []model.YearCount{}
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Select("year, COUNT(*) AS count").
		Group("year").
		Order("year ASC").
		Scan(&years).Error
	return years, err
}
