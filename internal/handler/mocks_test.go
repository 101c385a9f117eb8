package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/moviehub/internal/config"
	"github.com/user/moviehub/internal/handler"
	"github.com/user/moviehub/internal/middleware"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/router"
	"github.com/user/moviehub/internal/service"
)

const testSecret = "test-secret"

// --- MOCK SERVICES ---

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	args := m.Called(ctx, username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockMovieService struct{ mock.Mock }

func (m *MockMovieService) List(ctx context.Context, f model.MovieFilter) (*model.MoviePage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoviePage), args.Error(1)
}

func (m *MockMovieService) FullTextSearch(ctx context.Context, keyword string, page, limit int) (*model.MoviePage, error) {
	args := m.Called(ctx, keyword, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoviePage), args.Error(1)
}

func (m *MockMovieService) AdvancedSearch(ctx context.Context, f model.AdvancedFilter) (*model.MoviePage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoviePage), args.Error(1)
}

func (m *MockMovieService) Get(ctx context.Context, id uint) (*model.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieService) Create(ctx context.Context, in service.MovieInput) (*model.Movie, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieService) Update(ctx context.Context, id uint, in service.MovieInput) (*model.Movie, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMovieService) ListAll(ctx context.Context) ([]model.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Movie), args.Error(1)
}

type MockStatsService struct{ mock.Mock }

func (m *MockStatsService) Overview(ctx context.Context) (*model.Overview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Overview), args.Error(1)
}

func (m *MockStatsService) RatingDistribution(ctx context.Context) ([]model.RatingBucket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.RatingBucket), args.Error(1)
}

func (m *MockStatsService) YearDistribution(ctx context.Context) ([]model.YearCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.YearCount), args.Error(1)
}

type MockInteractionService struct{ mock.Mock }

func (m *MockInteractionService) Comments(ctx context.Context, movieID uint) ([]model.Comment, error) {
	args := m.Called(ctx, movieID)
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockInteractionService) AddComment(ctx context.Context, user model.Identity, movieID uint, content string, rating *float64) (*model.Comment, error) {
	args := m.Called(ctx, user, movieID, content, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockInteractionService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	return m.Called(ctx, userID, commentID).Error(0)
}

func (m *MockInteractionService) Favorites(ctx context.Context, userID uint) ([]model.Movie, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Movie), args.Error(1)
}

func (m *MockInteractionService) AddFavorite(ctx context.Context, userID, movieID uint) error {
	return m.Called(ctx, userID, movieID).Error(0)
}

func (m *MockInteractionService) RemoveFavorite(ctx context.Context, userID, movieID uint) error {
	return m.Called(ctx, userID, movieID).Error(0)
}

func (m *MockInteractionService) IsFavorited(ctx context.Context, userID, movieID uint) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

type MockRecommendService struct{ mock.Mock }

func (m *MockRecommendService) Recommend(ctx context.Context, userID uint) ([]model.Movie, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Movie), args.Error(1)
}

type MockOCR struct{ mock.Mock }

func (m *MockOCR) Recognize(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

// --- SETUP ---

type testEnv struct {
	router       *gin.Engine
	auth         *MockAuthService
	movies       *MockMovieService
	stats        *MockStatsService
	interactions *MockInteractionService
	recommend    *MockRecommendService
	ocr          *MockOCR
	uploadDir    string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:         new(MockAuthService),
		movies:       new(MockMovieService),
		stats:        new(MockStatsService),
		interactions: new(MockInteractionService),
		recommend:    new(MockRecommendService),
		ocr:          new(MockOCR),
		uploadDir:    t.TempDir(),
	}
	h := &handler.Handler{
		Config: &config.Config{
			AppSecret: testSecret,
			JWTExpiry: time.Hour,
			UploadDir: env.uploadDir,
		},
		Auth:         env.auth,
		Movies:       env.movies,
		Stats:        env.stats,
		Interactions: env.interactions,
		Recommend:    env.recommend,
		OCR:          env.ocr,
	}

	env.router = gin.New()
	router.RegisterRoutes(env.router, h)
	return env
}

func (e *testEnv) assertExpectations(t *testing.T) {
	e.auth.AssertExpectations(t)
	e.movies.AssertExpectations(t)
	e.stats.AssertExpectations(t)
	e.interactions.AssertExpectations(t)
	e.recommend.AssertExpectations(t)
	e.ocr.AssertExpectations(t)
}

// do 发送请求，token 非空时带上 Bearer 头
func (e *testEnv) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, id uint, username string) string {
	t.Helper()
	token, err := middleware.GenerateToken(id, username, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type upload struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, url string, fields map[string]string, file *upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = fw.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
