//go:build integration

package repository

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/service"
	"gorm.io/gorm"
)

// startPostgres 启动临时 Postgres 并完成迁移
func startPostgres(t *testing.T) *Repositories {
	t.Helper()

	db, err := InitDB(postgresURL(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	return NewRepositories(db)
}

// postgresURL 启动临时 Postgres 容器并返回连接串，Docker 不可用时跳过
func postgresURL(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}

	ctx = context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "movie_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/movie_test?sslmode=disable", host, port.Port())
}

func TestOpen_LeavesSchemaUntouched_Integration(t *testing.T) {
	db, err := Open(postgresURL(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.False(t, db.Migrator().HasTable(&model.Movie{}))

	_, err = NewRepositories(db).TableCounts(context.Background())
	assert.Error(t, err)
}

func seedMovies(t *testing.T, repos *Repositories) []model.Movie {
	t.Helper()
	movies := []model.Movie{
		{Title: "肖申克的救赎", OriginalTitle: "The Shawshank Redemption", Year: 1994, Rating: 9.7, Rank: 1,
			Directors: pq.StringArray{"弗兰克·德拉邦特"}, Actors: pq.StringArray{"蒂姆·罗宾斯"},
			Genres: pq.StringArray{"剧情", "犯罪"}, Countries: pq.StringArray{"美国"},
			Summary: "希望让人自由", LocalCoverPath: "./images/movie_1.jpg"},
		{Title: "霸王别姬", Year: 1993, Rating: 9.6, Rank: 2,
			Directors: pq.StringArray{"陈凯歌"}, Actors: pq.StringArray{"张国荣", "张丰毅"},
			Genres: pq.StringArray{"剧情", "爱情"}, Countries: pq.StringArray{"中国大陆", "中国香港"}},
		{Title: "千与千寻", Year: 2001, Rating: 9.4, Rank: 3,
			Directors: pq.StringArray{"宫崎骏"}, Genres: pq.StringArray{"动画", "奇幻"}, Countries: pq.StringArray{"日本"},
			LocalCoverPath: "./uploads/image-abc.jpg"},
		{Title: "某部烂片", Year: 2001, Rating: 4.2, Rank: 4, Genres: pq.StringArray{"剧情"}},
	}
	ctx := context.Background()
	for i := range movies {
		movies[i].EnsureSlices()
		require.NoError(t, repos.Movie.Create(ctx, &movies[i]))
	}
	return movies
}

func TestMovieRepository_Integration(t *testing.T) {
	repos := startPostgres(t)
	movies := seedMovies(t, repos)
	ctx := context.Background()

	t.Run("list search over arrays", func(t *testing.T) {
		got, total, err := repos.Movie.List(ctx, model.MovieFilter{Search: "国荣", SortBy: "rank", Order: "asc", Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "霸王别姬", got[0].Title)
	})

	t.Run("genre filter and sort", func(t *testing.T) {
		got, total, err := repos.Movie.List(ctx, model.MovieFilter{Genre: "剧情", SortBy: "rating", Order: "desc", Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, got, 2)
		assert.Equal(t, "肖申克的救赎", got[0].Title)
	})

	t.Run("unknown sort column falls back to rank", func(t *testing.T) {
		got, _, err := repos.Movie.List(ctx, model.MovieFilter{SortBy: "rating; DROP TABLE movies", Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, 1, got[0].Rank)
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		_, total, err := repos.Movie.List(ctx, model.MovieFilter{Search: "%", Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("advanced search", func(t *testing.T) {
		minRating := 9.0
		got, total, err := repos.Movie.AdvancedSearch(ctx, model.AdvancedFilter{Year: 2001, MinRating: &minRating, Country: "日", Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "千与千寻", got[0].Title)
	})

	t.Run("full text search", func(t *testing.T) {
		require.NoError(t, repos.Movie.RebuildTextIndex(ctx))
		got, total, err := repos.Movie.FullTextSearch(ctx, "Shawshank", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "肖申克的救赎", got[0].Title)
	})

	t.Run("rank lookups", func(t *testing.T) {
		maxRank, err := repos.Movie.MaxRank(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, maxRank)

		m, err := repos.Movie.FindByRank(ctx, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, "霸王别姬", m.Title)

		m, err = repos.Movie.FindByRank(ctx, 2, movies[1].ID)
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("duplicate rank rejected by unique index", func(t *testing.T) {
		err := repos.Movie.Create(ctx, &model.Movie{Title: "重复", Rank: 1})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("recommendation queries", func(t *testing.T) {
		top, err := repos.Movie.TopRated(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, 9.7, top[0].Rating)

		got, err := repos.Movie.FindByGenres(ctx, []string{"爱情", "动画"}, []uint{movies[1].ID}, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "千与千寻", got[0].Title)
	})

	t.Run("local cover paths", func(t *testing.T) {
		paths, err := repos.Movie.LocalCoverPaths(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"./images/movie_1.jpg", "./uploads/image-abc.jpg"}, paths)
	})
}

func TestStatsRepository_Integration(t *testing.T) {
	repos := startPostgres(t)
	ctx := context.Background()

	total, avg, err := repos.Stats.CountAndAverage(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, avg)

	seedMovies(t, repos)

	total, avg, err = repos.Stats.CountAndAverage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.InDelta(t, 8.225, avg, 0.001)

	genres, err := repos.Stats.TopGenres(ctx, 2)
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, model.GenreCount{Genre: "剧情", Count: 3}, genres[0])

	buckets, err := repos.Stats.RatingBuckets(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.BucketCount{{Boundary: 0, Count: 1}, {Boundary: 9, Count: 3}}, buckets)

	years, err := repos.Stats.YearDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.YearCount{{Year: 1993, Count: 1}, {Year: 1994, Count: 1}, {Year: 2001, Count: 2}}, years)
}

func TestStatsRepository_RatingBuckets_Integration(t *testing.T) {
	repos := startPostgres(t)
	ctx := context.Background()

	for i, rating := range []float64{2, 5.5, 9.9, 10} {
		movie := model.Movie{Title: fmt.Sprintf("评分 %v", rating), Rating: rating, Rank: i + 1}
		movie.EnsureSlices()
		require.NoError(t, repos.Movie.Create(ctx, &movie))
	}

	counts, err := repos.Stats.RatingBuckets(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.BucketCount{{Boundary: 0, Count: 1}, {Boundary: 5, Count: 1}, {Boundary: 9, Count: 1}}, counts)

	buckets := service.FillRatingBuckets(counts)
	got := make(map[int]int64, len(buckets))
	for _, b := range buckets {
		got[b.Boundary] = b.Count
	}
	assert.Equal(t, map[int]int64{0: 1, 5: 1, 6: 0, 7: 0, 8: 0, 9: 1}, got)
}

func TestInteractions_Integration(t *testing.T) {
	repos := startPostgres(t)
	movies := seedMovies(t, repos)
	ctx := context.Background()

	user, err := repos.User.Create(ctx, "alice", "secret1", "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, repos.User.CheckPassword(user, "secret1"))
	assert.False(t, repos.User.CheckPassword(user, "secret2"))

	_, err = repos.User.Create(ctx, "alice", "other12", "")
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := repos.User.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	movieID := movies[0].ID
	require.NoError(t, repos.Favorite.Add(ctx, user.ID, movieID))
	assert.ErrorIs(t, repos.Favorite.Add(ctx, user.ID, movieID), gorm.ErrDuplicatedKey)
	require.NoError(t, repos.Favorite.Add(ctx, user.ID, movies[2].ID))

	favorites, err := repos.Favorite.ListMovies(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)

	comment := &model.Comment{MovieID: movieID, UserID: user.ID, Username: user.Username, Content: "好看"}
	require.NoError(t, repos.Comment.Create(ctx, comment))
	comments, err := repos.Comment.ListByMovie(ctx, movieID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	deleted, err := repos.Movie.DeleteCascade(ctx, movieID)
	require.NoError(t, err)
	assert.True(t, deleted)

	comments, err = repos.Comment.ListByMovie(ctx, movieID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	ok, err := repos.Favorite.IsFavorited(ctx, user.ID, movieID)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err = repos.Movie.DeleteCascade(ctx, movieID)
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err := repos.Movie.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	counts, err := repos.TableCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"movies": 0, "users": 1, "comments": 0, "favorites": 0}, counts)
}
