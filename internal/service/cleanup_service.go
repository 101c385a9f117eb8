package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/user/moviehub/internal/logging"
)

// CoverPathStore 提供被电影引用的封面路径
type CoverPathStore interface {
	LocalCoverPaths(ctx context.Context) ([]string, error)
}

// CleanupService 定时清理无人引用的上传文件
type CleanupService struct {
	store     CoverPathStore
	uploadDir string
	minAge    time.Duration
	cron      *cron.Cron
}

// NewCleanupService 创建清理服务
func NewCleanupService(store CoverPathStore, uploadDir string) *CleanupService {
	return &CleanupService{
		store:     store,
		uploadDir: uploadDir,
		minAge:    time.Hour,
		cron:      cron.New(cron.WithLocation(time.Local)),
	}
}

// Start 按 cron 表达式启动定时清理任务
func (s *CleanupService) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.runCleanup(ctx)
	})
	if err != nil {
		return fmt.Errorf("无效的清理计划 %q: %w", spec, err)
	}

	s.cron.Start()
	logging.Info().Str("schedule", spec).Msg("[CleanupService] 定时清理已启动")
	return nil
}

// Stop 停止调度并等待正在运行的任务
func (s *CleanupService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CleanupService) runCleanup(ctx context.Context) {
	logging.Info().Msg("[CleanupService] 开始清理无用上传文件...")

	removed, err := s.Cleanup(ctx, time.Now())
	if err != nil {
		logging.Error().Err(err).Msg("[CleanupService] 清理失败")
		return
	}
	logging.Info().Int("removed", removed).Msg("[CleanupService] 清理完成")
}

// Cleanup 删除上传目录中未被引用且早于 minAge 的文件，返回删除数量
func (s *CleanupService) Cleanup(ctx context.Context, now time.Time) (int, error) {
	paths, err := s.store.LocalCoverPaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("读取封面路径失败: %w", err)
	}

	referenced := make(map[string]bool, len(paths))
	for _, p := range paths {
		referenced[filepath.Base(p)] = true
	}

	entries, err := os.ReadDir(s.uploadDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("读取上传目录失败: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || referenced[e.Name()] {
			continue
		}
		info, err := e.Info()
		if err != nil || now.Sub(info.ModTime()) < s.minAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadDir, e.Name())); err != nil {
			logging.Warn().Str("file", e.Name()).Err(err).Msg("[CleanupService] 删除文件失败")
			continue
		}
		removed++
	}
	return removed, nil
}
