package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/moviehub/internal/config"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/middleware"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/service"
	"github.com/user/moviehub/internal/utils"
)

// AuthService 注册登录
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
}

// MovieService 电影查询与维护
type MovieService interface {
	List(ctx context.Context, f model.MovieFilter) (*model.MoviePage, error)
	FullTextSearch(ctx context.Context, keyword string, page, limit int) (*model.MoviePage, error)
	AdvancedSearch(ctx context.Context, f model.AdvancedFilter) (*model.MoviePage, error)
	Get(ctx context.Context, id uint) (*model.Movie, error)
	Create(ctx context.Context, in service.MovieInput) (*model.Movie, error)
	Update(ctx context.Context, id uint, in service.MovieInput) (*model.Movie, error)
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]model.Movie, error)
}

// StatsService 统计
type StatsService interface {
	Overview(ctx context.Context) (*model.Overview, error)
	RatingDistribution(ctx context.Context) ([]model.RatingBucket, error)
	YearDistribution(ctx context.Context) ([]model.YearCount, error)
}

// InteractionService 评论与收藏
type InteractionService interface {
	Comments(ctx context.Context, movieID uint) ([]model.Comment, error)
	AddComment(ctx context.Context, user model.Identity, movieID uint, content string, rating *float64) (*model.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uint) error
	Favorites(ctx context.Context, userID uint) ([]model.Movie, error)
	AddFavorite(ctx context.Context, userID, movieID uint) error
	RemoveFavorite(ctx context.Context, userID, movieID uint) error
	IsFavorited(ctx context.Context, userID, movieID uint) (bool, error)
}

// RecommendService 推荐
type RecommendService interface {
	Recommend(ctx context.Context, userID uint) ([]model.Movie, error)
}

// OCREngine 图片文字识别
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Handler HTTP 处理器
type Handler struct {
	Config       *config.Config
	Auth         AuthService
	Movies       MovieService
	Stats        StatsService
	Interactions InteractionService
	Recommend    RecommendService
	OCR          OCREngine
}

// respondError 把业务错误映射为对应状态码，其余按 500 返回
func respondError(c *gin.Context, err error, message string) {
	var validationErr *service.ValidationError
	var rankErr *service.RankConflictError

	switch {
	case errors.As(err, &validationErr):
		utils.BadRequest(c, validationErr.Message)
	case errors.As(err, &rankErr):
		utils.BadRequest(c, rankErr.Error())
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, service.ErrAlreadyFavorited):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrMovieNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		utils.NotFound(c, err.Error())
	default:
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("[HTTP] " + message)
		utils.Fail(c, message, err)
	}
}

// parseID 解析路径中的数字 ID，非法时返回 false
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// identity 取登录用户，RequireAuth 之后总是存在
func identity(c *gin.Context) model.Identity {
	id, _ := middleware.GetIdentity(c)
	return id
}
