package model

// Overview 统计概览
type Overview struct {
	TotalMovies int64        `json:"totalMovies"`
	AvgRating   float64      `json:"avgRating"`
	TopGenres   []GenreCount `json:"topGenres"`
}

// GenreCount 类型频次
type GenreCount struct {
	Genre string `json:"_id"`
	Count int64  `json:"count"`
}

// YearCount 年份分布
type YearCount struct {
	Year  int   `json:"_id"`
	Count int64 `json:"count"`
}

// BucketCount 评分区间原始计数，Boundary 为区间下界
type BucketCount struct {
	Boundary int
	Count    int64
}

// RatingBucket 评分分布中的一个区间
type RatingBucket struct {
	Boundary int    `json:"boundary"`
	Label    string `json:"label"`
	Count    int64  `json:"count"`
}
