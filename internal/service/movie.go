package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/utils"
	"github.com/user/moviehub/internal/validation"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20

	searchTimeout = 30 * time.Second
)

// MovieInput 新增或修改电影时提交的字段，nil 表示未提供
type MovieInput struct {
	Title          *string
	OriginalTitle  *string
	Year           *int
	Rating         *float64
	RatingCount    *int
	Directors      []string
	Actors         []string
	Genres         []string
	Countries      []string
	Aka            []string
	Duration       *string
	Summary        *string
	CoverImageURL  *string
	LocalCoverPath *string
	DoubanURL      *string
	Rank           *int
	Quote          *string
	ReleaseDate    *string
	IMDbID         *string
	Language       *string
}

// apply 把已提供的字段写入 movie
func (in *MovieInput) apply(m *model.Movie) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setList := func(dst *pq.StringArray, src []string) {
		if src != nil {
			*dst = pq.StringArray(src)
		}
	}

	setString(&m.Title, in.Title)
	setString(&m.OriginalTitle, in.OriginalTitle)
	setString(&m.Duration, in.Duration)
	setString(&m.Summary, in.Summary)
	setString(&m.CoverImageURL, in.CoverImageURL)
	setString(&m.LocalCoverPath, in.LocalCoverPath)
	setString(&m.DoubanURL, in.DoubanURL)
	setString(&m.Quote, in.Quote)
	setString(&m.ReleaseDate, in.ReleaseDate)
	setString(&m.IMDbID, in.IMDbID)
	setString(&m.Language, in.Language)
	setList(&m.Directors, in.Directors)
	setList(&m.Actors, in.Actors)
	setList(&m.Genres, in.Genres)
	setList(&m.Countries, in.Countries)
	setList(&m.Aka, in.Aka)

	if in.Year != nil {
		m.Year = *in.Year
	}
	if in.Rating != nil {
		m.Rating = *in.Rating
	}
	if in.RatingCount != nil {
		m.RatingCount = *in.RatingCount
	}
	if in.Rank != nil {
		m.Rank = *in.Rank
	}
}

// MovieService 电影业务
type MovieService struct {
	movies MovieStore
	stats  *StatsService
	search *utils.LRUCache[*model.MoviePage]
	sf     singleflight.Group

	// generation 每次写入递增，旧查询结果不再写入缓存
	mu         sync.Mutex
	generation uint64
}

// NewMovieService stats 可为 nil
func NewMovieService(movies MovieStore, stats *StatsService) *MovieService {
	return &MovieService{
		movies: movies,
		stats:  stats,
		search: utils.NewLRUCache[*model.MoviePage](500, 10*time.Minute),
	}
}

// NormalizePaging 页码和每页数量小于 1 时使用默认值
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

func newPage(movies []model.Movie, total int64, page, limit int) *model.MoviePage {
	if movies == nil {
		movies = []model.Movie{}
	}
	for i := range movies {
		movies[i].EnsureSlices()
	}
	return &model.MoviePage{
		Movies: movies,
		Total:  total,
		Page:   page,
		Pages:  utils.TotalPages(total, limit),
	}
}

// List 分页列表
func (s *MovieService) List(ctx context.Context, f model.MovieFilter) (*model.MoviePage, error) {
	f.Page, f.Limit = NormalizePaging(f.Page, f.Limit)
	if f.Order != "desc" {
		f.Order = "asc"
	}

	movies, total, err := s.movies.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return newPage(movies, total, f.Page, f.Limit), nil
}

// FullTextSearch 全文检索，结果按关键词和分页缓存
func (s *MovieService) FullTextSearch(ctx context.Context, keyword string, page, limit int) (*model.MoviePage, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, invalid("请提供搜索关键词")
	}
	page, limit = NormalizePaging(page, limit)

	key := fmt.Sprintf("%s|%d|%d", keyword, page, limit)
	if cached, ok := s.search.Get(key); ok {
		return cached, nil
	}

	gen := s.currentGeneration()
	// 共享查询不随单个请求取消
	ch := s.sf.DoChan(fmt.Sprintf("%d|%s", gen, key), func() (interface{}, error) {
		queryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), searchTimeout)
		defer cancel()

		movies, total, err := s.movies.FullTextSearch(queryCtx, keyword, page, limit)
		if err != nil {
			return nil, err
		}
		result := newPage(movies, total, page, limit)
		s.cacheSearch(gen, key, result)
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.MoviePage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *MovieService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// cacheSearch 查询期间发生过写入时丢弃结果
func (s *MovieService) cacheSearch(gen uint64, key string, page *model.MoviePage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.search.Set(key, page)
	}
}

// AdvancedSearch 多条件搜索
func (s *MovieService) AdvancedSearch(ctx context.Context, f model.AdvancedFilter) (*model.MoviePage, error) {
	f.Page, f.Limit = NormalizePaging(f.Page, f.Limit)

	movies, total, err := s.movies.AdvancedSearch(ctx, f)
	if err != nil {
		return nil, err
	}
	return newPage(movies, total, f.Page, f.Limit), nil
}

// Get 电影详情
func (s *MovieService) Get(ctx context.Context, id uint) (*model.Movie, error) {
	movie, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	movie.EnsureSlices()
	return movie, nil
}

// Create 新增电影，未指定排名时排在最后
func (s *MovieService) Create(ctx context.Context, in MovieInput) (*model.Movie, error) {
	movie := &model.Movie{}
	in.apply(movie)
	if movie.Title == "" {
		return nil, invalid("电影标题不能为空")
	}

	if movie.Rank <= 0 {
		maxRank, err := s.movies.MaxRank(ctx)
		if err != nil {
			return nil, err
		}
		movie.Rank = maxRank + 1
		logging.Info().Int("rank", movie.Rank).Msg("[电影] 自动分配排名")
	} else if err := s.checkRank(ctx, movie.Rank, 0, true); err != nil {
		return nil, err
	}

	if err := validation.Struct(movie); err != nil {
		return nil, invalid("%s", err.Error())
	}

	movie.EnsureSlices()
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, s.rankConflict(ctx, err, movie.Rank, 0, true)
	}

	s.invalidate()
	return movie, nil
}

// Update 修改电影已提供的字段
func (s *MovieService) Update(ctx context.Context, id uint, in MovieInput) (*model.Movie, error) {
	if in.Rank != nil && *in.Rank > 0 {
		if err := s.checkRank(ctx, *in.Rank, id, false); err != nil {
			return nil, err
		}
	}

	movie, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	rank := movie.Rank
	in.apply(movie)
	if movie.Rank <= 0 {
		movie.Rank = rank
	}
	if err := validation.Struct(movie); err != nil {
		return nil, invalid("%s", err.Error())
	}

	movie.EnsureSlices()
	if err := s.movies.Save(ctx, movie); err != nil {
		return nil, s.rankConflict(ctx, err, movie.Rank, id, false)
	}

	s.invalidate()
	return movie, nil
}

// Delete 删除电影及其评论、收藏
func (s *MovieService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.movies.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMovieNotFound
	}
	s.invalidate()
	return nil
}

// ListAll 全部电影（导出使用）
func (s *MovieService) ListAll(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.movies.ListAll(ctx)
	for i := range movies {
		movies[i].EnsureSlices()
	}
	return movies, err
}

func (s *MovieService) checkRank(ctx context.Context, rank int, excludeID uint, creating bool) error {
	existing, err := s.movies.FindByRank(ctx, rank, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &RankConflictError{Rank: rank, Title: existing.Title, Creating: creating}
	}
	return nil
}

// rankConflict 把并发写入触发的唯一索引冲突转换为排名冲突
func (s *MovieService) rankConflict(ctx context.Context, err error, rank int, excludeID uint, creating bool) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if conflict := s.checkRank(ctx, rank, excludeID, creating); conflict != nil {
		return conflict
	}
	return &RankConflictError{Rank: rank, Creating: creating}
}

// invalidate 电影数据变化后清理缓存
func (s *MovieService) invalidate() {
	s.mu.Lock()
	s.generation++
	s.search.Purge()
	s.mu.Unlock()
	if s.stats != nil {
		s.stats.Invalidate()
	}
}
