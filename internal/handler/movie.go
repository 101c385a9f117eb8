package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/service"
	"github.com/user/moviehub/internal/utils"
)

// ListMovies 电影列表
func (h *Handler) ListMovies(c *gin.Context) {
	page, err := h.Movies.List(c.Request.Context(), model.MovieFilter{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
		SortBy: c.DefaultQuery("sortBy", "rank"),
		Order:  c.DefaultQuery("order", "asc"),
		Page:   utils.PositiveInt(c.Query("page"), service.DefaultPage),
		Limit:  utils.PositiveInt(c.Query("limit"), service.DefaultLimit),
	})
	if err != nil {
		respondError(c, err, "获取电影列表失败")
		return
	}
	c.JSON(http.StatusOK, page)
}

// FullTextSearch 全文检索
func (h *Handler) FullTextSearch(c *gin.Context) {
	page, err := h.Movies.FullTextSearch(c.Request.Context(),
		c.Query("q"),
		utils.PositiveInt(c.Query("page"), service.DefaultPage),
		utils.PositiveInt(c.Query("limit"), service.DefaultLimit),
	)
	if err != nil {
		respondError(c, err, "全文检索失败")
		return
	}
	c.JSON(http.StatusOK, page)
}

// AdvancedSearch 高级搜索
func (h *Handler) AdvancedSearch(c *gin.Context) {
	f := model.AdvancedFilter{
		Title:     c.Query("title"),
		Genre:     c.Query("genre"),
		Country:   c.Query("country"),
		Director:  c.Query("director"),
		Actor:     c.Query("actor"),
		MinRating: queryFloat(c, "minRating"),
		MaxRating: queryFloat(c, "maxRating"),
		Page:      utils.PositiveInt(c.Query("page"), service.DefaultPage),
		Limit:     utils.PositiveInt(c.Query("limit"), service.DefaultLimit),
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		f.Year = year
	}

	page, err := h.Movies.AdvancedSearch(c.Request.Context(), f)
	if err != nil {
		respondError(c, err, "高级搜索失败")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetMovie 电影详情
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, service.ErrMovieNotFound.Error())
		return
	}

	movie, err := h.Movies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "获取电影详情失败")
		return
	}
	c.JSON(http.StatusOK, movie)
}

// CreateMovie 新增电影，支持 multipart 上传封面（字段 image）
func (h *Handler) CreateMovie(c *gin.Context) {
	in, err := h.movieInput(c)
	if err != nil {
		respondError(c, err, "添加电影失败")
		return
	}

	movie, err := h.Movies.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "添加电影失败")
		return
	}
	utils.Created(c, gin.H{"message": "电影添加成功", "movie": movie})
}

// UpdateMovie 修改电影
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, service.ErrMovieNotFound.Error())
		return
	}

	in, err := h.movieInput(c)
	if err != nil {
		respondError(c, err, "更新电影失败")
		return
	}

	movie, err := h.Movies.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "更新电影失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "电影更新成功", "movie": movie})
}

// DeleteMovie 删除电影及其评论、收藏
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, service.ErrMovieNotFound.Error())
		return
	}

	if err := h.Movies.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "删除电影失败")
		return
	}
	utils.Message(c, http.StatusOK, "电影删除成功")
}

// ExportMovies 导出全部电影（json/csv/xlsx）
func (h *Handler) ExportMovies(c *gin.Context) {
	format, err := service.LookupExportFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		respondError(c, err, "导出数据失败")
		return
	}

	movies, err := h.Movies.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "导出数据失败")
		return
	}

	var buf bytes.Buffer
	if err := format.Write(&buf, movies); err != nil {
		respondError(c, err, "导出数据失败")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+format.Filename)
	c.Data(http.StatusOK, format.ContentType, buf.Bytes())
}

// movieInput 从表单读取已提交的字段，数组字段为逗号分隔字符串
func (h *Handler) movieInput(c *gin.Context) (service.MovieInput, error) {
	var in service.MovieInput

	text := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	list := func(key string) []string {
		if v, ok := c.GetPostForm(key); ok {
			return utils.SplitList(v)
		}
		return nil
	}

	in.Title = text("title")
	in.OriginalTitle = text("originalTitle")
	in.Duration = text("duration")
	in.Summary = text("summary")
	in.CoverImageURL = text("coverImageUrl")
	in.LocalCoverPath = text("localCoverPath")
	in.DoubanURL = text("doubanUrl")
	in.Quote = text("quote")
	in.ReleaseDate = text("releaseDate")
	in.IMDbID = text("imdbId")
	in.Language = text("language")
	in.Directors = list("directors")
	in.Actors = list("actors")
	in.Genres = list("genres")
	in.Countries = list("countries")
	in.Aka = list("aka")

	var err error
	if in.Year, err = formInt(c, "year"); err != nil {
		return in, err
	}
	if in.RatingCount, err = formInt(c, "ratingCount"); err != nil {
		return in, err
	}
	// 排名无法解析时视为未指定，由服务层自动分配或保留原排名
	if rank, err := formInt(c, "rank"); err == nil {
		in.Rank = rank
	}
	if in.Rating, err = formFloat(c, "rating"); err != nil {
		return in, err
	}

	path, err := h.saveUpload(c)
	if err != nil {
		return in, err
	}
	if path != "" {
		in.LocalCoverPath = &path
	}
	return in, nil
}

// saveUpload 保存上传的封面，返回 ./uploads/<name>，未上传时返回空串
func (h *Handler) saveUpload(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	if err := os.MkdirAll(h.Config.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}

	name := "image-" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.Config.UploadDir, name)); err != nil {
		return "", fmt.Errorf("保存上传文件失败: %w", err)
	}
	return "./uploads/" + name, nil
}

func formInt(c *gin.Context, key string) (*int, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, &service.ValidationError{Message: key + " 必须是整数"}
	}
	return &n, nil
}

func formFloat(c *gin.Context, key string) (*float64, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, &service.ValidationError{Message: key + " 必须是数字"}
	}
	return &f, nil
}

func queryFloat(c *gin.Context, key string) *float64 {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return nil
	}
	return &f
}
