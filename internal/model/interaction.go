package model

import (
	"time"
)

// Comment 电影评论，Username 为发表时的快照
type Comment struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	MovieID   uint      `json:"movieId" gorm:"not null;index"`
	UserID    uint      `json:"userId" gorm:"not null"`
	Username  string    `json:"username" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:varchar(1000);not null"`
	Rating    *float64  `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Favorite 收藏，(user_id, movie_id) 唯一
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index;uniqueIndex:idx_favorite_user_movie"`
	MovieID   uint      `json:"movieId" gorm:"not null;uniqueIndex:idx_favorite_user_movie"`
	CreatedAt time.Time `json:"createdAt"`
	Movie     *Movie    `json:"movie,omitempty" gorm:"foreignKey:MovieID"`
}
