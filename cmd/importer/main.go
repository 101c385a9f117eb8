package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/moviehub/internal/config"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/repository"
	"github.com/user/moviehub/internal/service"
)

var dataFile string

var rootCmd = &cobra.Command{
	Use:           "importer",
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "清空电影表并导入 movies.json",
	Long: `importer 会删除现有的全部电影（连同评论和收藏），
再逐条导入 movies.json 中的记录，最后重建全文检索索引。
导入期间不要同时写入电影数据。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if dataFile == "" {
			dataFile = filepath.Join(cfg.DataDir, "movies.json")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg, dataFile)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&dataFile, "file", "f", "", "数据文件路径（默认 DATA_DIR/movies.json）")
}

func run(ctx context.Context, cfg *config.Config, path string) error {
	records, err := service.ReadRecords(path)
	if err != nil {
		return err
	}
	logging.Info().Str("file", path).Int("count", len(records)).Msg("[导入] 读取数据文件")

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repository.Close(db)

	start := time.Now()
	result, err := service.NewImporter(repository.NewMovieRepository(db)).Import(ctx, records)
	if err != nil {
		return err
	}

	fmt.Printf("\n导入完成: 共 %d 条, 成功 %d 条, 失败 %d 条, 清除旧数据 %d 条, 耗时 %s\n",
		result.Total, result.Success, result.Failed, result.Deleted, time.Since(start).Round(time.Millisecond))
	return nil
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Debug().Msg("未找到 .env 文件，使用系统环境变量")
	}

	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("[导入] 失败")
		os.Exit(1)
	}
}
