package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/joho/godotenv"
	"github.com/user/moviehub/internal/config"
	"github.com/user/moviehub/internal/handler"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/ocr"
	"github.com/user/moviehub/internal/repository"
	"github.com/user/moviehub/internal/router"
	"github.com/user/moviehub/internal/service"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if cfg.UsesDefaultSecret() {
		logging.Warn().Msg("正在使用默认密钥，请设置 APP_SECRET 环境变量")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("数据库连接失败")
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			logging.Error().Err(err).Msg("关闭数据库失败")
		}
	}()
	logging.Info().Msg("数据库连接成功")

	repos := repository.NewRepositories(db)

	// 初始化服务
	stats := service.NewStatsService(repos.Stats, 5*time.Minute)
	h := &handler.Handler{
		Config:       cfg,
		Auth:         service.NewAuthService(repos.User),
		Movies:       service.NewMovieService(repos.Movie, stats),
		Stats:        stats,
		Interactions: service.NewInteractionService(repos.Movie, repos.Comment, repos.Favorite),
		Recommend:    service.NewRecommendService(repos.Movie, repos.Favorite),
		OCR:          ocr.NewEngine(cfg.OCRLanguages),
	}

	for _, dir := range []string{cfg.UploadDir, cfg.ImagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatal().Err(err).Str("dir", dir).Msg("创建目录失败")
		}
	}

	// 启动定时清理任务
	cleanup := service.NewCleanupService(repos.Movie, cfg.UploadDir)
	if err := cleanup.Start(cfg.CleanupCron); err != nil {
		logging.Fatal().Err(err).Str("cron", cfg.CleanupCron).Msg("清理任务启动失败")
	}
	defer cleanup.Stop()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router.New(h),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		logging.Info().Str("addr", "http://localhost:"+cfg.Port).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("服务器强制关闭")
	}

	logging.Info().Msg("服务器已退出")
}
