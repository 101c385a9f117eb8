package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/user/moviehub/internal/model"
)

type MockMovieStore struct{ mock.Mock }

func (m *MockMovieStore) List(ctx context.Context, f model.MovieFilter) ([]model.Movie, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Movie), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovieStore) FullTextSearch(ctx context.Context, keyword string, page, limit int) ([]model.Movie, int64, error) {
	args := m.Called(ctx, keyword, page, limit)
	return args.Get(0).([]model.Movie), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovieStore) AdvancedSearch(ctx context.Context, f model.AdvancedFilter) ([]model.Movie, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Movie), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovieStore) FindByID(ctx context.Context, id uint) (*model.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieStore) FindByRank(ctx context.Context, rank int, excludeID uint) (*model.Movie, error) {
	args := m.Called(ctx, rank, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieStore) MaxRank(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMovieStore) Create(ctx context.Context, movie *model.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *MockMovieStore) Save(ctx context.Context, movie *model.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *MockMovieStore) DeleteCascade(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMovieStore) ListAll(ctx context.Context) ([]model.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Movie), args.Error(1)
}

func (m *MockMovieStore) TopRated(ctx context.Context, limit int) ([]model.Movie, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Movie), args.Error(1)
}

func (m *MockMovieStore) FindByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]model.Movie, error) {
	args := m.Called(ctx, genres, excludeIDs, limit)
	return args.Get(0).([]model.Movie), args.Error(1)
}

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) Create(ctx context.Context, username, password, email string) (*model.User, error) {
	args := m.Called(ctx, username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) CheckPassword(user *model.User, password string) bool {
	return m.Called(user, password).Bool(0)
}

type MockCommentStore struct{ mock.Mock }

func (m *MockCommentStore) ListByMovie(ctx context.Context, movieID uint) ([]model.Comment, error) {
	args := m.Called(ctx, movieID)
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentStore) Create(ctx context.Context, comment *model.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentStore) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentStore) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockFavoriteStore struct{ mock.Mock }

func (m *MockFavoriteStore) Add(ctx context.Context, userID, movieID uint) error {
	return m.Called(ctx, userID, movieID).Error(0)
}

func (m *MockFavoriteStore) Remove(ctx context.Context, userID, movieID uint) error {
	return m.Called(ctx, userID, movieID).Error(0)
}

func (m *MockFavoriteStore) IsFavorited(ctx context.Context, userID, movieID uint) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteStore) ListMovies(ctx context.Context, userID uint) ([]model.Movie, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Movie), args.Error(1)
}

type MockStatsStore struct{ mock.Mock }

func (m *MockStatsStore) CountAndAverage(ctx context.Context) (int64, float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(float64), args.Error(2)
}

func (m *MockStatsStore) TopGenres(ctx context.Context, limit int) ([]model.GenreCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.GenreCount), args.Error(1)
}

func (m *MockStatsStore) RatingBuckets(ctx context.Context) ([]model.BucketCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.BucketCount), args.Error(1)
}

func (m *MockStatsStore) YearDistribution(ctx context.Context) ([]model.YearCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.YearCount), args.Error(1)
}

type MockImportStore struct{ mock.Mock }

func (m *MockImportStore) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportStore) Create(ctx context.Context, movie *model.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *MockImportStore) RebuildTextIndex(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
func floatPtr(f float64) *float64 { return &f }
