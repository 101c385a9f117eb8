package model

import (
	"time"

	"github.com/lib/pq"
)

// Movie 电影模型（豆瓣 Top250 信息）
type Movie struct {
	ID             uint           `json:"_id" gorm:"primaryKey"`
	Title          string         `json:"title" gorm:"not null;index" validate:"required"`
	OriginalTitle  string         `json:"originalTitle"`
	Year           int            `json:"year" gorm:"index" validate:"gte=0"`
	Rating         float64        `json:"rating" gorm:"index" validate:"gte=0,lte=10"`
	RatingCount    int            `json:"ratingCount" gorm:"default:0" validate:"gte=0"`
	Directors      pq.StringArray `json:"directors" gorm:"type:text[]"`
	Actors         pq.StringArray `json:"actors" gorm:"type:text[]"`
	Genres         pq.StringArray `json:"genres" gorm:"type:text[];index:,type:gin"`
	Countries      pq.StringArray `json:"countries" gorm:"type:text[]"`
	Duration       string         `json:"duration"`
	Summary        string         `json:"summary"`
	CoverImageURL  string         `json:"coverImageUrl"`
	LocalCoverPath string         `json:"localCoverPath"`
	DoubanURL      string         `json:"doubanUrl"`
	Rank           int            `json:"rank" gorm:"uniqueIndex" validate:"gt=0"`
	Quote          string         `json:"quote,omitempty"`
	ReleaseDate    string         `json:"releaseDate"`
	IMDbID         string         `json:"imdbId,omitempty"`
	Language       string         `json:"language"`
	Aka            pq.StringArray `json:"aka" gorm:"type:text[]"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// EnsureSlices 把空数组字段统一为 []，保证 JSON 输出不为 null
func (m *Movie) EnsureSlices() {
	for _, field := range []*pq.StringArray{&m.Directors, &m.Actors, &m.Genres, &m.Countries, &m.Aka} {
		if *field == nil {
			*field = pq.StringArray{}
		}
	}
}

// MovieFilter 电影列表查询条件
type MovieFilter struct {
	Search string
	Genre  string
	SortBy string
	Order  string
	Page   int
	Limit  int
}

// AdvancedFilter 高级搜索条件，零值字段表示不过滤
type AdvancedFilter struct {
	Title     string
	Genre     string
	Year      int
	MinRating *float64
	MaxRating *float64
	Country   string
	Director  string
	Actor     string
	Page      int
	Limit     int
}

// MoviePage 分页结果
type MoviePage struct {
	Movies []Movie `json:"movies"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
}

// MovieRecord 爬虫输出与导入使用的电影记录（movies.json）
type MovieRecord struct {
	Title          string   `json:"title"`
	OriginalTitle  string   `json:"originalTitle"`
	Year           int      `json:"year"`
	Rating         float64  `json:"rating"`
	RatingCount    int      `json:"ratingCount"`
	Directors      []string `json:"directors"`
	Actors         []string `json:"actors"`
	Genres         []string `json:"genres"`
	Countries      []string `json:"countries"`
	Duration       string   `json:"duration"`
	Summary        string   `json:"summary"`
	CoverImageURL  string   `json:"coverImageUrl"`
	LocalCoverPath string   `json:"localCoverPath"`
	DoubanURL      string   `json:"doubanUrl"`
	Rank           int      `json:"rank"`
	Quote          string   `json:"quote,omitempty"`
	ReleaseDate    string   `json:"releaseDate"`
	IMDbID         string   `json:"imdbId,omitempty"`
	Language       string   `json:"language"`
	Aka            []string `json:"aka"`
}

// ToMovie 转换为数据库模型
func (r MovieRecord) ToMovie() *Movie {
	m := &Movie{
		Title:          r.Title,
		OriginalTitle:  r.OriginalTitle,
		Year:           r.Year,
		Rating:         r.Rating,
		RatingCount:    r.RatingCount,
		Directors:      r.Directors,
		Actors:         r.Actors,
		Genres:         r.Genres,
		Countries:      r.Countries,
		Duration:       r.Duration,
		Summary:        r.Summary,
		CoverImageURL:  r.CoverImageURL,
		LocalCoverPath: r.LocalCoverPath,
		DoubanURL:      r.DoubanURL,
		Rank:           r.Rank,
		Quote:          r.Quote,
		ReleaseDate:    r.ReleaseDate,
		IMDbID:         r.IMDbID,
		Language:       r.Language,
		Aka:            r.Aka,
	}
	m.EnsureSlices()
	return m
}
