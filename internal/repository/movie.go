package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	textIndexName = "idx_movies_fulltext"
	// textVector 全文检索向量，需与索引表达式完全一致
	textVector = `to_tsvector('simple', coalesce(title, '') || ' ' || coalesce(summary, '') || ' ' || coalesce(original_title, ''))`
	textQuery  = `plainto_tsquery('simple', ?)`
)

// sortColumns 允许排序的字段（JSON 字段名 -> 列名）
var sortColumns = map[string]string{
	"_id":           "id",
	"rank":          "rank",
	"title":         "title",
	"originalTitle": "original_title",
	"year":          "year",
	"rating":        "rating",
	"ratingCount":   "rating_count",
	"duration":      "duration",
	"releaseDate":   "release_date",
	"language":      "language",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

// SortColumn 把排序字段映射为列名，未知字段按 rank 排序
func SortColumn(sortBy string) string {
	if col, ok := sortColumns[sortBy]; ok {
		return col
	}
	return "rank"
}

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// List 分页列表，支持关键词、类型过滤与任意字段排序
func (r *MovieRepository) List(ctx context.Context, f model.MovieFilter) ([]model.Movie, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movie{})

	if f.Search != "" {
		pattern := "%" + utils.EscapeLike(f.Search) + "%"
		q = q.Where(
			"title ILIKE ? OR original_title ILIKE ? OR "+arrayContainsLike("directors")+" OR "+arrayContainsLike("actors"),
			pattern, pattern, pattern, pattern,
		)
	}
	if f.Genre != "" {
		q = q.Where("? = ANY(genres)", f.Genre)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []model.Movie
	err := q.Order(clause.OrderByColumn{
		Column: clause.Column{Name: SortColumn(f.SortBy)},
		Desc:   f.Order == "desc",
	}).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&movies).Error
	return movies, total, err
}

// FullTextSearch 全文检索，按相关度排序
func (r *MovieRepository) FullTextSearch(ctx context.Context, keyword string, page, limit int) ([]model.Movie, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movie{}).Where(textVector+" @@ "+textQuery, keyword)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []model.Movie
	err := q.Order(clause.OrderBy{Expression: clause.Expr{
		SQL:                "ts_rank(" + textVector + ", " + textQuery + ") DESC",
		Vars:               []interface{}{keyword},
		WithoutParentheses: true,
	}}).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&movies).Error
	return movies, total, err
}

// AdvancedSearch 多条件组合搜索，固定按排名升序
func (r *MovieRepository) AdvancedSearch(ctx context.Context, f model.AdvancedFilter) ([]model.Movie, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movie{})

	if f.Title != "" {
		q = q.Where("title ILIKE ?", "%"+utils.EscapeLike(f.Title)+"%")
	}
	if f.Genre != "" {
		q = q.Where("? = ANY(genres)", f.Genre)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		q = q.Where("rating <= ?", *f.MaxRating)
	}
	if f.Country != "" {
		q = q.Where(arrayContainsLike("countries"), "%"+utils.EscapeLike(f.Country)+"%")
	}
	if f.Director != "" {
		q = q.Where(arrayContainsLike("directors"), "%"+utils.EscapeLike(f.Director)+"%")
	}
	if f.Actor != "" {
		q = q.Where(arrayContainsLike("actors"), "%"+utils.EscapeLike(f.Actor)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []model.Movie
	err := q.Order("rank ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&movies).Error
	return movies, total, err
}

// arrayContainsLike 数组任一元素模糊匹配
func arrayContainsLike(column string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS elem WHERE elem ILIKE ?)", column)
}

// FindByID 根据 ID 查找电影，不存在返回 nil
func (r *MovieRepository) FindByID(ctx context.Context, id uint) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByRank 查找占用某排名的电影，excludeID 非零时排除该电影
func (r *MovieRepository) FindByRank(ctx context.Context, rank int, excludeID uint) (*model.Movie, error) {
	q := r.db.WithContext(ctx).Where("rank = ?", rank)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var movie model.Movie
	err := q.First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// MaxRank 当前最大排名，空表返回 0
func (r *MovieRepository) MaxRank(ctx context.Context) (int, error) {
	var maxRank int
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Select("COALESCE(MAX(rank), 0)").
		Scan(&maxRank).Error
	return maxRank, err
}

// Create 新增电影
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

// Save 保存电影全部字段
func (r *MovieRepository) Save(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Save(movie).Error
}

// DeleteCascade 删除电影及其评论、收藏，电影不存在返回 false
func (r *MovieRepository) DeleteCascade(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Movie{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		if err := tx.Where("movie_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("movie_id = ?", id).Delete(&model.Favorite{}).Error
	})
	return deleted, err
}

// DeleteAll 清空电影（连同评论、收藏），返回删除的电影数
func (r *MovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Movie{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// ListAll 全部电影，按排名升序
func (r *MovieRepository) ListAll(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).Order("rank ASC").Find(&movies).Error
	return movies, err
}

// TopRated 评分最高的电影
func (r *MovieRepository) TopRated(ctx context.Context, limit int) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).Order("rating DESC").Limit(limit).Find(&movies).Error
	return movies, err
}

// FindByGenres 匹配任一类型的电影，排除指定 ID，按评分降序
func (r *MovieRepository) FindByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]model.Movie, error) {
	q := r.db.WithContext(ctx).Where("genres && ?", pq.StringArray(genres))
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var movies []model.Movie
	err := q.Order("rating DESC").Limit(limit).Find(&movies).Error
	return movies, err
}

// LocalCoverPaths 所有电影引用的本地封面路径
func (r *MovieRepository) LocalCoverPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("local_cover_path <> ''").
		Pluck("local_cover_path", &paths).Error
	return paths, err
}

// RebuildTextIndex 删除并重建全文检索索引
func (r *MovieRepository) RebuildTextIndex(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DROP INDEX IF EXISTS " + textIndexName).Error; err != nil {
		return fmt.Errorf("删除全文索引失败: %w", err)
	}
	if err := db.Exec("CREATE INDEX " + textIndexName + " ON movies USING GIN (" + textVector + ")").Error; err != nil {
		return fmt.Errorf("创建全文索引失败: %w", err)
	}
	return nil
}
