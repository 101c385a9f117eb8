package service

import (
	"context"
	"sort"

	"github.com/user/moviehub/internal/model"
)

const (
	recommendLimit  = 10
	recommendGenres = 3
)

// RecommendService 基于收藏类型的推荐
type RecommendService struct {
	movies    MovieStore
	favorites FavoriteStore
}

func NewRecommendService(movies MovieStore, favorites FavoriteStore) *RecommendService {
	return &RecommendService{movies: movies, favorites: favorites}
}

// Recommend 没有收藏时返回评分最高的电影，否则按收藏中最常见的类型推荐
func (s *RecommendService) Recommend(ctx context.Context, userID uint) ([]model.Movie, error) {
	favorites, err := s.favorites.ListMovies(ctx, userID)
	if err != nil {
		return nil, err
	}

	var movies []model.Movie
	if len(favorites) == 0 {
		movies, err = s.movies.TopRated(ctx, recommendLimit)
	} else {
		genres := TopGenres(favorites, recommendGenres)
		if len(genres) == 0 {
			return []model.Movie{}, nil
		}

		excluded := make([]uint, 0, len(favorites))
		for _, m := range favorites {
			excluded = append(excluded, m.ID)
		}
		movies, err = s.movies.FindByGenres(ctx, genres, excluded, recommendLimit)
	}
	if err != nil {
		return nil, err
	}

	if movies == nil {
		movies = []model.Movie{}
	}
	for i := range movies {
		movies[i].EnsureSlices()
	}
	return movies, nil
}

// TopGenres 统计类型出现次数，取前 n 个，次数相同按首次出现顺序
func TopGenres(movies []model.Movie, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, m := range movies {
		for _, g := range m.Genres {
			if counts[g] == 0 {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
