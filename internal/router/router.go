package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/moviehub/internal/handler"
	"github.com/user/moviehub/internal/middleware"
	"github.com/user/moviehub/internal/utils"
)

// New 创建 Gin 引擎并注册中间件与路由
func New(h *handler.Handler) *gin.Engine {
	if h.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())
	// 导出文件与图片不压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads", "/images", "/api/movies/export"})))

	// 上传文件和爬虫封面
	r.Static("/uploads", h.Config.UploadDir)
	r.Static("/images", h.Config.ImagesDir)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(r, h)
	r.NoRoute(spaFallback(h.Config.FrontendDir))
	return r
}

// RegisterRoutes 注册所有 API 路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	auth := middleware.RequireAuth(h.Config.AppSecret)

	api := r.Group("/api")
	api.GET("/health", h.Health)

	// ==================== 认证 ====================
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	// ==================== 电影 ====================
	movies := api.Group("/movies")
	{
		movies.GET("", h.ListMovies)
		movies.GET("/fulltext-search", h.FullTextSearch)
		movies.GET("/advanced-search", h.AdvancedSearch)
		movies.GET("/export/data", auth, h.ExportMovies)
		movies.GET("/:id", h.GetMovie)
		movies.POST("", auth, h.CreateMovie)
		movies.PUT("/:id", auth, h.UpdateMovie)
		movies.DELETE("/:id", auth, h.DeleteMovie)
	}

	// ==================== 统计 ====================
	stats := api.Group("/stats")
	{
		stats.GET("/overview", h.StatsOverview)
		stats.GET("/rating-distribution", h.RatingDistribution)
		stats.GET("/year-distribution", h.YearDistribution)
	}

	// ==================== 评论 ====================
	api.GET("/comments/:movieId", h.ListComments)
	api.POST("/comments/:movieId", auth, h.AddComment)
	api.DELETE("/comments/:id", auth, h.DeleteComment)

	// ==================== 收藏（需要登录）====================
	favorites := api.Group("/favorites", auth)
	{
		favorites.GET("", h.ListFavorites)
		favorites.GET("/check/:movieId", h.CheckFavorite)
		favorites.POST("/:movieId", h.AddFavorite)
		favorites.DELETE("/:movieId", h.RemoveFavorite)
	}

	api.GET("/recommendations", auth, h.Recommendations)
	api.POST("/ocr", h.RecognizeImage)
}

// spaFallback 未匹配的页面请求返回前端 index.html，API 请求返回 404
func spaFallback(frontendDir string) gin.HandlerFunc {
	index := filepath.Join(frontendDir, "index.html")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if frontendDir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			utils.NotFound(c, "接口不存在")
			return
		}

		file := filepath.Join(frontendDir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	}
}
