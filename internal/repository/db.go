package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/user/moviehub/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接并迁移表结构
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := Open(databaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.User{}, &model.Movie{}, &model.Comment{}, &model.Favorite{}); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return db, nil
}

// Open 连接数据库并测试连通性，不修改表结构
func Open(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	return db, nil
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Repositories 仓库集合
type Repositories struct {
	DB       *gorm.DB
	User     *UserRepository
	Movie    *MovieRepository
	Comment  *CommentRepository
	Favorite *FavoriteRepository
	Stats    *StatsRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:       db,
		User:     NewUserRepository(db),
		Movie:    NewMovieRepository(db),
		Comment:  NewCommentRepository(db),
		Favorite: NewFavoriteRepository(db),
		Stats:    NewStatsRepository(db),
	}
}

// TableCounts 各表记录数（诊断工具使用）
func (r *Repositories) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 4)
	for name, m := range map[string]interface{}{
		"movies":    &model.Movie{},
		"users":     &model.User{},
		"comments":  &model.Comment{},
		"favorites": &model.Favorite{},
	} {
		var n int64
		if err := r.DB.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("统计 %s 失败: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}
