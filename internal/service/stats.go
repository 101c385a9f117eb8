package service

import (
	"context"
	"fmt"
	"time"

	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/utils"
)

// RatingBoundaries 评分分布的区间下界，最后一个区间为 [9,10)
var RatingBoundaries = []int{0, 5, 6, 7, 8, 9}

const (
	overviewKey     = "stats:overview"
	ratingKey       = "stats:rating"
	yearKey         = "stats:year"
	topGenresLimit  = 10
	defaultStatsTTL = 5 * time.Minute
)

// StatsService 统计服务，结果带缓存
type StatsService struct {
	store StatsStore
	cache *utils.TTLCache
}

func NewStatsService(store StatsStore, ttl time.Duration) *StatsService {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &StatsService{store: store, cache: utils.NewTTLCache(ttl)}
}

// Invalidate 清空统计缓存
func (s *StatsService) Invalidate() {
	s.cache.Flush()
}

// Overview 电影总数、平均分与热门类型
func (s *StatsService) Overview(ctx context.Context) (*model.Overview, error) {
	if v, ok := s.cache.Get(overviewKey); ok {
		return v.(*model.Overview), nil
	}

	total, avg, err := s.store.CountAndAverage(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := s.store.TopGenres(ctx, topGenresLimit)
	if err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []model.GenreCount{}
	}

	overview := &model.Overview{TotalMovies: total, AvgRating: avg, TopGenres: genres}
	s.cache.Set(overviewKey, overview)
	return overview, nil
}

// RatingDistribution 六个固定区间的评分分布
func (s *StatsService) RatingDistribution(ctx context.Context) ([]model.RatingBucket, error) {
	if v, ok := s.cache.Get(ratingKey); ok {
		return v.([]model.RatingBucket), nil
	}

	counts, err := s.store.RatingBuckets(ctx)
	if err != nil {
		return nil, err
	}

	result := FillRatingBuckets(counts)
	s.cache.Set(ratingKey, result)
	return result, nil
}

// YearDistribution 年份分布
func (s *StatsService) YearDistribution(ctx context.Context) ([]model.YearCount, error) {
	if v, ok := s.cache.Get(yearKey); ok {
		return v.([]model.YearCount), nil
	}

	years, err := s.store.YearDistribution(ctx)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = []model.YearCount{}
	}
	s.cache.Set(yearKey, years)
	return years, nil
}

// FillRatingBuckets 补齐缺失区间，按下界升序输出
func FillRatingBuckets(counts []model.BucketCount) []model.RatingBucket {
	byBoundary := make(map[int]int64, len(counts))
	for _, c := range counts {
		byBoundary[c.Boundary] += c.Count
	}

	result := make([]model.RatingBucket, 0, len(RatingBoundaries))
	for _, b := range RatingBoundaries {
		result = append(result, model.RatingBucket{
			Boundary: b,
			Label:    bucketLabel(b),
			Count:    byBoundary[b],
		})
	}
	return result
}

func bucketLabel(boundary int) string {
	if boundary == 9 {
		return "9-10"
	}
	return fmt.Sprintf("%d-%d", boundary, boundary+1)
}
